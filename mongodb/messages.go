package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"shyftcut/api/models"
)

func CreateMessage(ctx context.Context, message *models.ChatMessage) error {
	collection := MongoClient.Database(MongoDatabase).Collection(MessageCollection)
	if _, err := collection.InsertOne(ctx, message); err != nil {
		return fmt.Errorf("error storing chat message: %v", err)
	}
	return nil
}

func GetMessagesBySessionID(ctx context.Context, userID, sessionID string) ([]models.ChatMessage, error) {
	collection := MongoClient.Database(MongoDatabase).Collection(MessageCollection)
	filter := bson.M{
		"session_id": sessionID,
		"user_id":    userID,
	}
	opts := options.Find().SetSort(bson.D{{Key: "timestamp", Value: 1}})

	cursor, err := collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("error fetching chat messages: %v", err)
	}
	defer cursor.Close(ctx)

	var messages []models.ChatMessage
	for cursor.Next(ctx) {
		var message models.ChatMessage
		if err := cursor.Decode(&message); err != nil {
			return nil, fmt.Errorf("error decoding chat message: %v", err)
		}
		messages = append(messages, message)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error: %v", err)
	}

	return messages, nil
}
