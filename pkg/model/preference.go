package model

import "time"

// Preference is one persisted user preference.
type Preference struct {
	Key       string    `json:"key" firestore:"key"`
	Value     string    `json:"value" firestore:"value"`
	UpdatedAt time.Time `json:"updatedAt" firestore:"updatedAt"`
}
