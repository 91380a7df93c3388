package queue

const (
	TypeSignerNotify      = "signer:notify"
	TypeDocumentCompleted = "document:completed"
)

type SignerNotifyPayload struct {
	SignerID string `json:"signer_id"`
}

type DocumentCompletedPayload struct {
	DocumentID string `json:"document_id"`
}
