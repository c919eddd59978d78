package extract

// Request is the per-email unit of input: the verbatim email body and the
// entity type labels the caller wants extracted. An empty EntityTypes slice
// means "extract all identifiable entities". Immutable once constructed.
type Request struct {
	MailText    string
	EntityTypes []string
}
