package domain

// MediaFile is a payload to be stored on the media host.
type MediaFile struct {
	Data        []byte
	ContentType string
}

// MediaRef points at an object stored on the media host.
type MediaRef struct {
	URL      string `json:"url"`
	PublicID string `json:"publicId"`
}
