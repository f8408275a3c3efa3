package entity

import "time"

// CleaningOptions are the per-file cleaning toggles.
type CleaningOptions struct {
	RemoveDuplicates bool
	FillMissing      bool
}

// SessionFile is one uploaded file and everything derived from it.
//
// Pristine is the table as parsed and is never mutated. Current is Pristine
// with the enabled cleaning options applied. Both are nil unless Status is
// FileStatusReady.
type SessionFile struct {
	Upload   UploadedFile
	Format   Format
	Status   FileStatus
	Message  string
	Pristine *Table
	Current  *Table
	Cleaning CleaningOptions
	// Notes are the reports of the last cleaning run.
	Notes []string

	// DuplicatesRemoved and MissingFilled count what the enabled options
	// changed since the pristine table. Zero while the option is off.
	DuplicatesRemoved int
	MissingFilled     int
}

// Ready reports whether the file parsed into a non-empty table.
func (f *SessionFile) Ready() bool {
	return f.Status == FileStatusReady && f.Current != nil
}

// Session is the state of one uploaded batch.
type Session struct {
	ID        string
	CreatedAt time.Time
	UpdatedAt time.Time
	Files     []*SessionFile
	Artifacts []*Artifact
}

// File returns the file with the given name.
func (s *Session) File(name string) (*SessionFile, bool) {
	for _, f := range s.Files {
		if f.Upload.Name == name {
			return f, true
		}
	}
	return nil, false
}

// Artifact returns the artifact with the given id.
func (s *Session) Artifact(id string) (*Artifact, bool) {
	for _, a := range s.Artifacts {
		if a.ID == id {
			return a, true
		}
	}
	return nil, false
}

// PutArtifact stores a, replacing an earlier conversion of the same source
// file to the same target.
func (s *Session) PutArtifact(a *Artifact) {
	for i, old := range s.Artifacts {
		if old.SourceName == a.SourceName && old.Target == a.Target {
			s.Artifacts[i] = a
			return
		}
	}
	s.Artifacts = append(s.Artifacts, a)
}
