package domain

// ArtifactKind identifies a family of generated datasets.
type ArtifactKind string

const (
	KindWords     ArtifactKind = "words"
	KindSyllables ArtifactKind = "syllables"
	KindDicts     ArtifactKind = "dicts"
	KindPatterns  ArtifactKind = "patterns"
)

func (k ArtifactKind) String() string { return string(k) }

func (k ArtifactKind) IsValid() bool {
	switch k {
	case KindWords, KindSyllables, KindDicts, KindPatterns:
		return true
	}
	return false
}

// ArtifactKinds returns every kind in build order.
func ArtifactKinds() []ArtifactKind {
	return []ArtifactKind{KindPatterns, KindWords, KindSyllables, KindDicts}
}

// Backend names a dataset storage implementation.
type Backend string

const (
	BackendFS       Backend = "fs"
	BackendSQLite   Backend = "sqlite"
	BackendBadger   Backend = "badger"
	BackendPostgres Backend = "postgres"
)

func (b Backend) String() string { return string(b) }

func (b Backend) IsValid() bool {
	switch b {
	case BackendFS, BackendSQLite, BackendBadger, BackendPostgres:
		return true
	}
	return false
}
