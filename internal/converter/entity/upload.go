package entity

// UploadedFile is one file of a batch as received from the browser.
type UploadedFile struct {
	Name    string
	Size    int64
	Content []byte
}

// SizeKB is the size in kibibytes, as shown next to the file name.
func (u UploadedFile) SizeKB() float64 {
	return float64(u.Size) / 1024
}
