package skills

// SynonymTable groups interchangeable skill names. Groups come from the
// lexicon configuration (configs/lexicons/synonyms.yaml) so they can be
// updated without recompilation.
type SynonymTable struct {
	group map[string]int
	names [][]string
}

// NewSynonymTable builds a table from synonym groups. Every name is
// normalized before indexing; a name can belong to only one group (the
// first wins).
func NewSynonymTable(groups [][]string) *SynonymTable {
	t := &SynonymTable{group: make(map[string]int)}
	for _, g := range groups {
		var kept []string
		for _, name := range g {
			n := Normalize(name)
			if n == "" {
				continue
			}
			if _, dup := t.group[n]; dup {
				continue
			}
			t.group[n] = len(t.names)
			kept = append(kept, n)
		}
		if len(kept) > 0 {
			t.names = append(t.names, kept)
		}
	}
	return t
}

// SameGroup reports whether two normalized names are registered synonyms.
func (t *SynonymTable) SameGroup(a, b string) bool {
	ga, ok := t.group[a]
	if !ok {
		return false
	}
	gb, ok := t.group[b]
	return ok && ga == gb
}

// Aliases returns every registered name in the group of the given normalized
// name, or nil when the name is not registered.
func (t *SynonymTable) Aliases(name string) []string {
	g, ok := t.group[name]
	if !ok {
		return nil
	}
	return t.names[g]
}

// Canonical maps a normalized name to its group representative (the first
// name of the group), or returns the name unchanged when unregistered.
// The gap analyzer uses this to merge "postgres" and "postgresql" counts.
func (t *SynonymTable) Canonical(name string) string {
	g, ok := t.group[name]
	if !ok {
		return name
	}
	return t.names[g][0]
}
