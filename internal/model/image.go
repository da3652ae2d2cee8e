package model

import "gorm.io/gorm"

type Image struct {
	gorm.Model
	URL        string `json:"url" gorm:"type:text;not null"`
	PropertyID uint   `json:"property_id" gorm:"index;not null"`
}

// URLs returns the urls of images in order.
func URLs(images []Image) []string {
	urls := make([]string, 0, len(images))
	for _, img := range images {
		urls = append(urls, img.URL)
	}
	return urls
}
