package models

import (
	"time"

	"github.com/lib/pq"
)

// Skatepark is a published, searchable venue.
type Skatepark struct {
	ID          int64          `gorm:"column:id;primaryKey;autoIncrement"`
	Name        string         `gorm:"column:name;not null"`
	Description string         `gorm:"column:description;not null"`
	Address     string         `gorm:"column:address;not null"`
	City        string         `gorm:"column:city;not null"`
	State       string         `gorm:"column:state;not null"`
	ImageURL    string         `gorm:"column:image_url;not null"`
	IsFree      bool           `gorm:"column:is_free;not null"`
	Price       *string        `gorm:"column:price"`
	Rating      int            `gorm:"column:rating;not null"`
	Features    pq.StringArray `gorm:"column:features;type:text[];not null"`
	IsFeatured  bool           `gorm:"column:is_featured;not null"`
	Latitude    *float64       `gorm:"column:latitude"`
	Longitude   *float64       `gorm:"column:longitude"`
	CreatedAt   time.Time      `gorm:"column:created_at;autoCreateTime"`
}

func (Skatepark) TableName() string {
	return "skateparks"
}

// HasCoordinates reports whether both latitude and longitude are present.
func (s Skatepark) HasCoordinates() bool {
	return s.Latitude != nil && s.Longitude != nil
}

// HasFeature reports whether the tag is attached to the skatepark.
func (s Skatepark) HasFeature(feature string) bool {
	for _, f := range s.Features {
		if f == feature {
			return true
		}
	}
	return false
}

// Clone returns a deep copy so callers cannot mutate shared state.
func (s Skatepark) Clone() Skatepark {
	out := s
	out.Price = cloneString(s.Price)
	out.Latitude = cloneFloat(s.Latitude)
	out.Longitude = cloneFloat(s.Longitude)
	if s.Features != nil {
		out.Features = append(pq.StringArray{}, s.Features...)
	}
	return out
}

func cloneString(v *string) *string {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

func cloneFloat(v *float64) *float64 {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
