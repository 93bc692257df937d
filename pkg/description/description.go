// Package description holds the declarative model a node map is built from
// and loads it from GenICam-style XML or from YAML.
//
// The model is deliberately close to the source documents: references are
// kept as node names and numeric literals as text. Resolving names into
// nodes and parsing literals is the job of package nodemap.
package description

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrUnknownKind is returned for a node element that is not part of the
// vocabulary.
var ErrUnknownKind = errors.New("description: unknown node kind")

// ErrUnknownFormat is returned by Load for a file extension it cannot map to
// a loader.
var ErrUnknownFormat = errors.New("description: unknown file format")

// Kind is the element name of a node.
type Kind string

// Node kinds.
const (
	KindCategory      Kind = "Category"
	KindInteger       Kind = "Integer"
	KindFloat         Kind = "Float"
	KindBoolean       Kind = "Boolean"
	KindString        Kind = "String"
	KindEnumeration   Kind = "Enumeration"
	KindEnumEntry     Kind = "EnumEntry"
	KindCommand       Kind = "Command"
	KindRegister      Kind = "Register"
	KindIntReg        Kind = "IntReg"
	KindMaskedIntReg  Kind = "MaskedIntReg"
	KindFloatReg      Kind = "FloatReg"
	KindStringReg     Kind = "StringReg"
	KindStructReg     Kind = "StructReg"
	KindStructEntry   Kind = "StructEntry"
	KindSwissKnife    Kind = "SwissKnife"
	KindIntSwissKnife Kind = "IntSwissKnife"
	KindConverter     Kind = "Converter"
	KindIntConverter  Kind = "IntConverter"
	KindPort          Kind = "Port"
)

var topLevelKinds = map[Kind]bool{
	KindCategory: true, KindInteger: true, KindFloat: true, KindBoolean: true,
	KindString: true, KindEnumeration: true, KindCommand: true,
	KindRegister: true, KindIntReg: true, KindMaskedIntReg: true,
	KindFloatReg: true, KindStringReg: true, KindStructReg: true,
	KindSwissKnife: true, KindIntSwissKnife: true, KindConverter: true,
	KindIntConverter: true, KindPort: true,
}

// Valid reports whether k may appear as a top level node.
func (k Kind) Valid() bool { return topLevelKinds[k] }

// Description is a complete device description.
type Description struct {
	ModelName  string     `yaml:"modelName"`
	VendorName string     `yaml:"vendorName"`
	ToolTip    string     `yaml:"toolTip,omitempty"`
	Version    string     `yaml:"version,omitempty"`
	Nodes      []NodeDesc `yaml:"nodes"`
}

// Index is a pIndex reference: the node supplying the index and the stride
// it is multiplied by, either literal or taken from another node.
type Index struct {
	Node    string `xml:",chardata" yaml:"node"`
	Offset  string `xml:"Offset,attr" yaml:"offset,omitempty"`
	POffset string `xml:"pOffset,attr" yaml:"pOffset,omitempty"`
}

// Variable binds a formula variable to a node. Name may carry a suffix such
// as WIDTH.Max only in the formula, never here.
type Variable struct {
	Name string `xml:"Name,attr" yaml:"name"`
	Node string `xml:",chardata" yaml:"node"`
}

// Named is a named Constant or Expression of a formula node.
type Named struct {
	Name string `xml:"Name,attr" yaml:"name"`
	Text string `xml:",chardata" yaml:"text"`
}

// NodeDesc describes a single node. Fields that do not apply to Kind are
// left empty. Elements prefixed with p name another node; the unprefixed
// sibling holds a literal.
type NodeDesc struct {
	Kind      Kind   `xml:"-" yaml:"kind"`
	Name      string `xml:"Name,attr" yaml:"name"`
	NameSpace string `xml:"NameSpace,attr" yaml:"nameSpace,omitempty"`

	DisplayName string `xml:"DisplayName" yaml:"displayName,omitempty"`
	ToolTip     string `xml:"ToolTip" yaml:"toolTip,omitempty"`
	Description string `xml:"Description" yaml:"description,omitempty"`
	Visibility  string `xml:"Visibility" yaml:"visibility,omitempty"`
	Streamable  string `xml:"Streamable" yaml:"streamable,omitempty"`

	PIsImplemented    string  `xml:"pIsImplemented" yaml:"pIsImplemented,omitempty"`
	PIsAvailable      string  `xml:"pIsAvailable" yaml:"pIsAvailable,omitempty"`
	PIsLocked         string  `xml:"pIsLocked" yaml:"pIsLocked,omitempty"`
	ImposedAccessMode string  `xml:"ImposedAccessMode" yaml:"imposedAccessMode,omitempty"`
	AccessMode        string  `xml:"AccessMode" yaml:"accessMode,omitempty"`
	Cachable          string  `xml:"Cachable" yaml:"cachable,omitempty"`
	PollingTime       int64   `xml:"PollingTime" yaml:"pollingTime,omitempty"`
	PInvalidator      Strings `xml:"pInvalidator" yaml:"pInvalidator,omitempty"`
	PSelected         Strings `xml:"pSelected" yaml:"pSelected,omitempty"`
	PFeature          Strings `xml:"pFeature" yaml:"pFeature,omitempty"`

	Value  string `xml:"Value" yaml:"value,omitempty"`
	PValue string `xml:"pValue" yaml:"pValue,omitempty"`
	Min    string `xml:"Min" yaml:"min,omitempty"`
	PMin   string `xml:"pMin" yaml:"pMin,omitempty"`
	Max    string `xml:"Max" yaml:"max,omitempty"`
	PMax   string `xml:"pMax" yaml:"pMax,omitempty"`
	Inc    string `xml:"Inc" yaml:"inc,omitempty"`
	PInc   string `xml:"pInc" yaml:"pInc,omitempty"`

	Unit             string `xml:"Unit" yaml:"unit,omitempty"`
	Representation   string `xml:"Representation" yaml:"representation,omitempty"`
	DisplayNotation  string `xml:"DisplayNotation" yaml:"displayNotation,omitempty"`
	DisplayPrecision *int   `xml:"DisplayPrecision" yaml:"displayPrecision,omitempty"`
	MaxLength        string `xml:"MaxLength" yaml:"maxLength,omitempty"`

	OnValue       string `xml:"OnValue" yaml:"onValue,omitempty"`
	OffValue      string `xml:"OffValue" yaml:"offValue,omitempty"`
	CommandValue  string `xml:"CommandValue" yaml:"commandValue,omitempty"`
	PCommandValue string `xml:"pCommandValue" yaml:"pCommandValue,omitempty"`

	Entries      []NodeDesc `xml:"EnumEntry" yaml:"entries,omitempty"`
	NumericValue string     `xml:"NumericValue" yaml:"numericValue,omitempty"`
	Symbolic     string     `xml:"Symbolic" yaml:"symbolic,omitempty"`

	Address   Strings `xml:"Address" yaml:"address,omitempty"`
	PAddress  Strings `xml:"pAddress" yaml:"pAddress,omitempty"`
	PIndex    *Index  `xml:"pIndex" yaml:"pIndex,omitempty"`
	Length    string  `xml:"Length" yaml:"length,omitempty"`
	PLength   string  `xml:"pLength" yaml:"pLength,omitempty"`
	PPort     string  `xml:"pPort" yaml:"pPort,omitempty"`
	Sign      string  `xml:"Sign" yaml:"sign,omitempty"`
	Endianess string  `xml:"Endianess" yaml:"endianess,omitempty"`
	LSB       *int    `xml:"LSB" yaml:"lsb,omitempty"`
	MSB       *int    `xml:"MSB" yaml:"msb,omitempty"`
	Bit       *int    `xml:"Bit" yaml:"bit,omitempty"`

	StructEntries []NodeDesc `xml:"StructEntry" yaml:"structEntries,omitempty"`

	Variables   []Variable `xml:"pVariable" yaml:"pVariables,omitempty"`
	Constants   []Named    `xml:"Constant" yaml:"constants,omitempty"`
	Expressions []Named    `xml:"Expression" yaml:"expressions,omitempty"`
	Formula     string     `xml:"Formula" yaml:"formula,omitempty"`
	FormulaTo   string     `xml:"FormulaTo" yaml:"formulaTo,omitempty"`
	FormulaFrom string     `xml:"FormulaFrom" yaml:"formulaFrom,omitempty"`
	Slope       string     `xml:"Slope" yaml:"slope,omitempty"`
}

// Strings is a list of values that YAML may also spell as a single scalar.
type Strings []string

// UnmarshalYAML accepts either a scalar or a sequence.
func (s *Strings) UnmarshalYAML(n *yaml.Node) error {
	if n.Kind == yaml.ScalarNode {
		*s = Strings{n.Value}
		return nil
	}
	var list []string
	if err := n.Decode(&list); err != nil {
		return err
	}
	*s = list
	return nil
}

// normalize trims text content, fills in the kinds of nested entries and
// checks every top level kind.
func (d *Description) normalize() error {
	for i := range d.Nodes {
		n := &d.Nodes[i]
		if !n.Kind.Valid() {
			return fmt.Errorf("%w: %q (node %q)", ErrUnknownKind, n.Kind, n.Name)
		}
		n.trim()
		for j := range n.Entries {
			n.Entries[j].Kind = KindEnumEntry
			n.Entries[j].trim()
		}
		for j := range n.StructEntries {
			n.StructEntries[j].Kind = KindStructEntry
			n.StructEntries[j].trim()
		}
	}
	return nil
}

func (n *NodeDesc) trim() {
	for _, p := range []*string{
		&n.Name, &n.PIsImplemented, &n.PIsAvailable, &n.PIsLocked,
		&n.ImposedAccessMode, &n.AccessMode, &n.Cachable, &n.Visibility,
		&n.Value, &n.PValue, &n.Min, &n.PMin, &n.Max, &n.PMax, &n.Inc, &n.PInc,
		&n.Representation, &n.DisplayNotation, &n.MaxLength, &n.OnValue,
		&n.OffValue, &n.CommandValue, &n.PCommandValue, &n.NumericValue,
		&n.Length, &n.PLength, &n.PPort, &n.Sign, &n.Endianess, &n.Slope,
		&n.Streamable, &n.Symbolic,
	} {
		*p = strings.TrimSpace(*p)
	}
	for _, list := range []Strings{n.PInvalidator, n.PSelected, n.PFeature, n.Address, n.PAddress} {
		for i := range list {
			list[i] = strings.TrimSpace(list[i])
		}
	}
	if n.PIndex != nil {
		n.PIndex.Node = strings.TrimSpace(n.PIndex.Node)
	}
	for i := range n.Variables {
		n.Variables[i].Node = strings.TrimSpace(n.Variables[i].Node)
	}
}

// Find returns the top level node called name.
func (d *Description) Find(name string) (*NodeDesc, bool) {
	for i := range d.Nodes {
		if d.Nodes[i].Name == name {
			return &d.Nodes[i], true
		}
	}
	return nil, false
}

// Load reads a description file, choosing the loader by extension.
func Load(path string) (*Description, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xml":
		return LoadXML(path)
	case ".yaml", ".yml":
		return LoadYAML(path)
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownFormat, path)
}

func readFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return data, nil
}
