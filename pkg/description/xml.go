package description

import (
	"encoding/xml"
	"fmt"
)

// UnmarshalXML decodes a RegisterDescription element. Every child element is
// a node whose element name is its kind; Group elements are flattened.
func (d *Description) UnmarshalXML(dec *xml.Decoder, start xml.StartElement) error {
	for _, a := range start.Attr {
		switch a.Name.Local {
		case "ModelName":
			d.ModelName = a.Value
		case "VendorName":
			d.VendorName = a.Value
		case "ToolTip":
			d.ToolTip = a.Value
		case "Version":
			d.Version = a.Value
		}
	}
	return d.decodeNodes(dec)
}

func (d *Description) decodeNodes(dec *xml.Decoder) error {
	for {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local == "Group" {
				if err := d.decodeNodes(dec); err != nil {
					return err
				}
				continue
			}
			var n NodeDesc
			if err := dec.DecodeElement(&n, &t); err != nil {
				return fmt.Errorf("decoding %s: %w", t.Name.Local, err)
			}
			n.Kind = Kind(t.Name.Local)
			d.Nodes = append(d.Nodes, n)
		case xml.EndElement:
			return nil
		}
	}
}

// ParseXML parses a GenICam-style XML description.
func ParseXML(data []byte) (*Description, error) {
	var d Description
	if err := xml.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("parsing description: %w", err)
	}
	if err := d.normalize(); err != nil {
		return nil, err
	}
	return &d, nil
}

// LoadXML loads and parses an XML description from a file.
func LoadXML(path string) (*Description, error) {
	data, err := readFile(path)
	if err != nil {
		return nil, err
	}
	return ParseXML(data)
}
