package report

import "fmt"

// DatabaseType distinguishes nucleotide from protein BLAST databases.
type DatabaseType string

const (
	// Nucleotide is a nucleotide database.
	Nucleotide DatabaseType = "nucleotide"
	// Protein is a protein database.
	Protein DatabaseType = "protein"
)

// IsValid checks if the database type is supported.
func (t DatabaseType) IsValid() bool {
	return t == Nucleotide || t == Protein
}

// Database is a BLAST database a report was searched against.
type Database struct {
	id     string
	name   string
	title  string
	dbType DatabaseType
}

// NewDatabase validates and creates a Database.
func NewDatabase(id, name, title string, t DatabaseType) (Database, error) {
	if id == "" {
		return Database{}, fmt.Errorf("database id is required")
	}
	if t != "" && !t.IsValid() {
		return Database{}, fmt.Errorf("invalid database type %q for %q", t, id)
	}
	return Database{id: id, name: name, title: title, dbType: t}, nil
}

// ReconstructDatabase creates a Database without validation (storage hydration).
func ReconstructDatabase(id, name, title string, t DatabaseType) Database {
	return Database{id: id, name: name, title: title, dbType: t}
}

// ID returns the database identifier used by get_sequence.
func (d Database) ID() string { return d.id }

// Name returns the database file name.
func (d Database) Name() string { return d.name }

// Title returns the human readable title.
func (d Database) Title() string { return d.title }

// Type returns the database type.
func (d Database) Type() DatabaseType { return d.dbType }

// DatabaseIDs projects databases to their ids, preserving order.
func DatabaseIDs(dbs []Database) []string {
	ids := make([]string, len(dbs))
	for i, d := range dbs {
		ids[i] = d.id
	}
	return ids
}
