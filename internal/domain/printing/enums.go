package printing

// DocumentStatus is the lifecycle status of a generated document row
type DocumentStatus string

const (
	DocumentStatusDraft DocumentStatus = "draft"
	DocumentStatusReady DocumentStatus = "ready"
)

// String returns the string representation of DocumentStatus
func (s DocumentStatus) String() string {
	return string(s)
}
