package model

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"time"
)

// StatusPending is the conventional status of a freshly placed order.
// Statuses are otherwise shop-defined free text.
const StatusPending = "pending"

// FilesKey is the reserved specification field holding attachment metadata.
// It is owned by the server; client-supplied values are discarded.
const FilesKey = "files"

// Attachment describes an uploaded file. It lives only inside an order's
// specification; the bytes live in object storage under ObjectKey.
type Attachment struct {
	ObjectKey string `json:"objectKey"`
	PublicURL string `json:"publicUrl"`
	FileName  string `json:"fileName"`
	FileSize  int64  `json:"fileSize"`
	MimeType  string `json:"mimeType"`
}

// Specification is the open, product-specific form data submitted with an order.
type Specification map[string]any

// DecodeSpecification decodes a single JSON object. Numbers are kept as
// json.Number so they re-encode exactly as given.
func DecodeSpecification(b []byte) (Specification, error) {
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	var s Specification
	if err := dec.Decode(&s); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errors.New("unexpected data after specification object")
	}
	if s == nil {
		s = Specification{}
	}
	return s, nil
}

// Clone returns a shallow copy of s. A nil specification clones to an empty one.
func (s Specification) Clone() Specification {
	out := make(Specification, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

// WithoutAttachments returns a copy of s with the reserved files field removed.
func (s Specification) WithoutAttachments() Specification {
	out := s.Clone()
	delete(out, FilesKey)
	return out
}

// WithAttachments returns a copy of s whose files field is replaced by files.
func (s Specification) WithAttachments(files []Attachment) Specification {
	out := s.Clone()
	out[FilesKey] = files
	return out
}

// HasAttachments reports whether the reserved files field is present.
func (s Specification) HasAttachments() bool {
	_, ok := s[FilesKey]
	return ok
}

// Attachments decodes the reserved files field. A missing field yields nil.
func (s Specification) Attachments() ([]Attachment, error) {
	raw, ok := s[FilesKey]
	if !ok || raw == nil {
		return nil, nil
	}
	if files, ok := raw.([]Attachment); ok {
		return files, nil
	}
	b, err := json.Marshal(raw)
	if err != nil {
		return nil, err
	}
	var files []Attachment
	if err := json.Unmarshal(b, &files); err != nil {
		return nil, err
	}
	return files, nil
}

// Order is a customer's request for a catalog product.
type Order struct {
	ID            string        `json:"id"`
	UserID        string        `json:"userId"`
	ProductID     int           `json:"productId"`
	Price         float64       `json:"price"`
	Status        string        `json:"status"`
	Specification Specification `json:"orderSpecifications"`
	CreatedAt     time.Time     `json:"createdAt"`
	UpdatedAt     time.Time     `json:"updatedAt"`

	// Owner is filled by lookups that join the ordering user.
	Owner *UserSummary `json:"-"`
}

// OrderView is an order joined with its catalog product and ordering user.
type OrderView struct {
	Order
	Product *Product     `json:"product"`
	User    *UserSummary `json:"user"`
}
