package thumbnail

// DerivativeJob asks for all derivatives of one image.
type DerivativeJob struct {
	UserID string `json:"userId"`
	FileID string `json:"fileId"`
}

// Validate reports a missing field.
func (j DerivativeJob) Validate() error {
	if j.FileID == "" {
		return ErrMissingFileID
	}
	if j.UserID == "" {
		return ErrMissingUserID
	}
	return nil
}
