package request

// PrintReceiptRequest is the optional body of a print request. Reprints are
// marked as a copy on paper.
type PrintReceiptRequest struct {
	Reprint bool `json:"reprint"`
}
