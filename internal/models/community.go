package models

import "time"

// CommunityMessage belongs to the public many-to-many channel, separate from
// private 1:1 messaging. Sender name is denormalized for cheap listing.
type CommunityMessage struct {
	ID         string    `bson:"_id" json:"id"`
	SenderID   string    `bson:"senderId" json:"senderId"`
	SenderName string    `bson:"senderName" json:"senderName"`
	Text       string    `bson:"text" json:"text"`
	CreatedAt  time.Time `bson:"createdAt" json:"createdAt"`
}
