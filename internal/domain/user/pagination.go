package user

// Page represents a skip/limit window over the user collection.
type Page struct {
	Number  int64 // Current page number (1-based)
	PerPage int64 // Number of records per page
}

// Skip returns the number of leading records to skip for this page.
func (p Page) Skip() int64 {
	return (p.Number - 1) * p.PerPage
}

// TotalPages returns the number of pages needed for total records.
func (p Page) TotalPages(total int64) int64 {
	if p.PerPage <= 0 {
		return 0
	}
	return (total + p.PerPage - 1) / p.PerPage
}
