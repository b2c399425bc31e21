package shared

// Filter holds common listing options for repository queries
type Filter struct {
	// Search is a keyword matched against the entity's searchable fields
	Search string
	// OrderBy names the column to sort by (repository-validated)
	OrderBy string
	// OrderDir is "asc" or "desc"
	OrderDir string
}
