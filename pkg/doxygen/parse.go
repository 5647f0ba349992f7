package doxygen

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
)

// ErrNoCompound is returned when a compound file holds no compounddef.
var ErrNoCompound = errors.New("no compounddef element")

// compoundFile is the <doxygen> root of a compound file.
type compoundFile struct {
	XMLName   xml.Name   `xml:"doxygen"`
	Version   string     `xml:"version,attr"`
	Compounds []Compound `xml:"compounddef"`
}

// ParseIndex decodes index.xml.
func ParseIndex(r io.Reader) (*Index, error) {
	var index Index
	if err := xml.NewDecoder(r).Decode(&index); err != nil {
		return nil, fmt.Errorf("parse index: %w", err)
	}
	return &index, nil
}

// ParseCompound decodes a compound file and returns its compounddef.
func ParseCompound(r io.Reader) (*Compound, error) {
	var file compoundFile
	if err := xml.NewDecoder(r).Decode(&file); err != nil {
		return nil, fmt.Errorf("parse compound: %w", err)
	}
	if len(file.Compounds) == 0 {
		return nil, ErrNoCompound
	}
	return &file.Compounds[0], nil
}
