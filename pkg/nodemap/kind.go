package nodemap

import "github.com/nodemap-go/nodemap/pkg/description"

// Kind identifies the variant of a node.
type Kind uint8

const (
	KindCategory Kind = iota + 1
	KindInteger
	KindFloat
	KindBoolean
	KindString
	KindEnumeration
	KindEnumEntry
	KindCommand
	KindRegister
	KindIntReg
	KindMaskedIntReg
	KindFloatReg
	KindStringReg
	KindStructEntry
	KindSwissKnife
	KindIntSwissKnife
	KindConverter
	KindIntConverter
	KindPort
)

var kindNames = map[Kind]description.Kind{
	KindCategory:      description.KindCategory,
	KindInteger:       description.KindInteger,
	KindFloat:         description.KindFloat,
	KindBoolean:       description.KindBoolean,
	KindString:        description.KindString,
	KindEnumeration:   description.KindEnumeration,
	KindEnumEntry:     description.KindEnumEntry,
	KindCommand:       description.KindCommand,
	KindRegister:      description.KindRegister,
	KindIntReg:        description.KindIntReg,
	KindMaskedIntReg:  description.KindMaskedIntReg,
	KindFloatReg:      description.KindFloatReg,
	KindStringReg:     description.KindStringReg,
	KindStructEntry:   description.KindStructEntry,
	KindSwissKnife:    description.KindSwissKnife,
	KindIntSwissKnife: description.KindIntSwissKnife,
	KindConverter:     description.KindConverter,
	KindIntConverter:  description.KindIntConverter,
	KindPort:          description.KindPort,
}

var kindsByName = func() map[description.Kind]Kind {
	m := make(map[description.Kind]Kind, len(kindNames))
	for k, name := range kindNames {
		m[name] = k
	}
	return m
}()

// String returns the element name of the kind.
func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return string(s)
	}
	return "Unknown"
}

// IsRegister reports whether nodes of this kind do port I/O themselves.
func (k Kind) IsRegister() bool {
	switch k {
	case KindRegister, KindIntReg, KindMaskedIntReg, KindFloatReg, KindStringReg, KindStructEntry:
		return true
	}
	return false
}

// isInteger reports whether the kind natively yields an integer.
func (k Kind) isInteger() bool {
	switch k {
	case KindInteger, KindIntReg, KindMaskedIntReg, KindStructEntry,
		KindIntSwissKnife, KindIntConverter, KindEnumeration, KindBoolean, KindEnumEntry:
		return true
	}
	return false
}

// isNumber reports whether the kind yields an integer or a float.
func (k Kind) isNumber() bool {
	switch k {
	case KindFloat, KindFloatReg, KindSwissKnife, KindConverter:
		return true
	}
	return k.isInteger()
}

// isString reports whether the kind yields a string.
func (k Kind) isString() bool {
	return k == KindString || k == KindStringReg
}

// hasFormula reports whether the kind carries formulas.
func (k Kind) hasFormula() bool {
	switch k {
	case KindSwissKnife, KindIntSwissKnife, KindConverter, KindIntConverter:
		return true
	}
	return false
}
