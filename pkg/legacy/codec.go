package legacy

import (
	"io"
	"math"
	"strconv"

	gojson "github.com/goccy/go-json"

	"github.com/ajitpratap0/tablebridge/pkg/errors"
)

// cell is a JSON cell: numbers as numbers, missing as null and
// infinities as strings.
type cell float64

func (c cell) MarshalJSON() ([]byte, error) {
	v := float64(c)
	switch {
	case math.IsNaN(v):
		return []byte("null"), nil
	case math.IsInf(v, 1):
		return []byte(`"Infinity"`), nil
	case math.IsInf(v, -1):
		return []byte(`"-Infinity"`), nil
	}
	return strconv.AppendFloat(nil, v, 'g', -1, 64), nil
}

func (c *cell) UnmarshalJSON(data []byte) error {
	switch string(data) {
	case "null":
		*c = cell(math.NaN())
		return nil
	case `"Infinity"`:
		*c = cell(math.Inf(1))
		return nil
	case `"-Infinity"`:
		*c = cell(math.Inf(-1))
		return nil
	}
	v, err := strconv.ParseFloat(string(data), 64)
	if err != nil {
		return err
	}
	*c = cell(v)
	return nil
}

type attributeJSON struct {
	Name string `json:"name"`
	Type string `json:"type"`
	Role string `json:"role,omitempty"`
	// Values lists dictionary positions 1..n; unassigned positions are null.
	Values []*string `json:"values,omitempty"`
}

type datasetJSON struct {
	Attributes  []attributeJSON   `json:"attributes"`
	Annotations map[string]string `json:"annotations,omitempty"`
	Rows        [][]cell          `json:"rows"`
}

// WriteJSON encodes set as JSON. Transformations are applied and not stored.
func WriteJSON(w io.Writer, set ExampleSet) error {
	doc := datasetJSON{
		Attributes:  make([]attributeJSON, len(set.Attributes())),
		Annotations: set.Annotations(),
		Rows:        make([][]cell, set.Size()),
	}
	for i, ar := range set.Attributes() {
		a := attributeJSON{Name: ar.Attribute.Name, Type: ar.Attribute.Type.String(), Role: ar.Role}
		if m := ar.Attribute.Mapping; m != nil {
			a.Values = make([]*string, 0, m.Size()-1)
			for idx := 1; idx < m.Size(); idx++ {
				if v, ok := m.Lookup(idx); ok {
					a.Values = append(a.Values, &v)
				} else {
					a.Values = append(a.Values, nil)
				}
			}
		}
		doc.Attributes[i] = a
	}
	for r := range doc.Rows {
		row := make([]cell, len(doc.Attributes))
		for c := range row {
			row[c] = cell(set.Value(r, c))
		}
		doc.Rows[r] = row
	}
	return gojson.NewEncoder(w).Encode(&doc)
}

// ReadJSON decodes a dataset written by WriteJSON.
func ReadJSON(r io.Reader) (*Dataset, error) {
	var doc datasetJSON
	if err := gojson.NewDecoder(r).Decode(&doc); err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeData, "failed to decode dataset")
	}
	attrs := make([]AttributeRole, len(doc.Attributes))
	for i, a := range doc.Attributes {
		t, err := ParseValueType(a.Type)
		if err != nil {
			return nil, err
		}
		attr := NewAttribute(a.Name, t)
		if t.IsNominal() {
			d := NewDictionary()
			d.binominal = t == Binominal
			for idx, v := range a.Values {
				if v == nil {
					continue
				}
				if err := d.Set(idx+1, *v); err != nil {
					return nil, errors.Wrap(err, errors.ErrorTypeData, "invalid dictionary").
						WithDetail("attribute", a.Name)
				}
			}
			attr.Mapping = d
		}
		attrs[i] = AttributeRole{Attribute: attr, Role: a.Role}
	}
	ds, err := NewDataset(attrs...)
	if err != nil {
		return nil, err
	}
	for k, v := range doc.Annotations {
		ds.Annotate(k, v)
	}
	for i, row := range doc.Rows {
		values := make([]float64, len(row))
		for c, v := range row {
			values[c] = float64(v)
		}
		if err := ds.AddRow(values...); err != nil {
			return nil, errors.Wrap(err, errors.ErrorTypeData, "invalid row").WithDetail("row", i)
		}
	}
	return ds, nil
}
