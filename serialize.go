package voxcontour

import "gopkg.in/yaml.v2"

// yamlPoint2D mirrors Point2D with lowercase YAML field names, kept separate
// from the exported type so Point2D itself stays free of serialization tags.
type yamlPoint2D struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

type yamlContourPolygon struct {
	Points           []yamlPoint2D `yaml:"points"`
	RegionAreaPixels uint64        `yaml:"regionAreaPixels"`
}

// yamlContoursPerSlice is the on-disk shape of a ContoursPerSlice snapshot:
// a flat list keyed by slice index, rather than a YAML mapping keyed by an
// arbitrary integer, so the document reads as an ordered sequence of slices.
type yamlContoursPerSlice struct {
	Slices []yamlSliceEntry `yaml:"slices"`
}

type yamlSliceEntry struct {
	Index    int                  `yaml:"index"`
	Contours []yamlContourPolygon `yaml:"contours"`
}

// MarshalYAML encodes a snapshot of c as YAML, ordered by ascending slice
// index for a stable, diffable document.
func MarshalYAML(c *ContoursPerSlice) ([]byte, error) {
	indices := c.SlicesWithContours()
	sortInts(indices)

	doc := yamlContoursPerSlice{Slices: make([]yamlSliceEntry, 0, len(indices))}
	for _, i := range indices {
		list, _ := c.TryContoursForSlice(i)
		doc.Slices = append(doc.Slices, yamlSliceEntry{Index: i, Contours: toYAMLContours(list)})
	}
	return yaml.Marshal(doc)
}

// UnmarshalYAML decodes data produced by MarshalYAML into a fresh
// ContoursPerSlice.
func UnmarshalYAML(data []byte) (*ContoursPerSlice, error) {
	var doc yamlContoursPerSlice
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, newErr(ErrInvalidArgument, "UnmarshalYAML", "%v", err)
	}
	out := NewContoursPerSlice()
	for _, entry := range doc.Slices {
		out.Set(entry.Index, fromYAMLContours(entry.Contours))
	}
	return out, nil
}

func toYAMLContours(list []ContourPolygon) []yamlContourPolygon {
	out := make([]yamlContourPolygon, len(list))
	for i, c := range list {
		out[i] = yamlContourPolygon{
			Points:           toYAMLPoints(c.Points),
			RegionAreaPixels: c.RegionAreaPixels,
		}
	}
	return out
}

func fromYAMLContours(list []yamlContourPolygon) []ContourPolygon {
	out := make([]ContourPolygon, len(list))
	for i, c := range list {
		out[i] = ContourPolygon{
			Points:           fromYAMLPoints(c.Points),
			RegionAreaPixels: c.RegionAreaPixels,
		}
	}
	return out
}

func toYAMLPoints(pts []Point2D) []yamlPoint2D {
	out := make([]yamlPoint2D, len(pts))
	for i, p := range pts {
		out[i] = yamlPoint2D{X: p.X, Y: p.Y}
	}
	return out
}

func fromYAMLPoints(pts []yamlPoint2D) []Point2D {
	out := make([]Point2D, len(pts))
	for i, p := range pts {
		out[i] = Point2D{X: p.X, Y: p.Y}
	}
	return out
}
