package shared

// Document is a reformatted score handed to an exporter.
type Document struct {
	// Name of the source, usually its file name
	Name string
	// Braille is the score as Unicode braille, one line per row
	Braille string
	// Columns is the line width the score was broken to
	Columns int
	// Metadata is the JSON description of the score
	Metadata []byte
}

// Properties describe an exporter.
type Properties struct {
	Name        string
	Description string
	// Extension of the files it writes, with the leading dot
	Extension string
}
