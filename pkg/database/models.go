package database

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Setting is one persisted preference. Stored settings override the
// settings file.
type Setting struct {
	Name      string `gorm:"primaryKey"`
	Value     string
	UpdatedAt time.Time
}

// Transcription is a reformatted score kept in the library.
type Transcription struct {
	gorm.Model

	// Serial identifies the transcription to users
	Serial string `gorm:"uniqueIndex"`
	// Name of the source, usually its file name
	Name string `gorm:"index"`
	// Hash of the input and the options it was reformatted with
	Hash string `gorm:"index"`

	Input  string
	Output string
	// Metadata describes the score: parts, measures, signatures, layout
	Metadata datatypes.JSON
}
