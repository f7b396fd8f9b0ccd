package database

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func EnsureUserIndexes(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	indexes := db.Collection("users").Indexes()

	emailIndex := mongo.IndexModel{
		Keys: bson.D{{Key: "email", Value: 1}},
		Options: options.Index().
			SetName("email_unique").
			SetUnique(true),
	}

	resetTokenIndex := mongo.IndexModel{
		Keys: bson.D{{Key: "resetPasswordToken", Value: 1}},
		Options: options.Index().
			SetName("reset_token_lookup").
			SetPartialFilterExpression(bson.M{
				"resetPasswordToken": bson.M{"$exists": true},
			}),
	}

	_, err := indexes.CreateMany(ctx, []mongo.IndexModel{emailIndex, resetTokenIndex})
	if err != nil {
		log.Errorln("EnsureUserIndexes: index error:", err)
		return err
	}
	return nil
}

func EnsureProductIndexes(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	indexes := db.Collection("products").Indexes()

	nameIndex := mongo.IndexModel{
		Keys:    bson.D{{Key: "name", Value: 1}},
		Options: options.Index().SetName("name_index"),
	}

	categoryIndex := mongo.IndexModel{
		Keys:    bson.D{{Key: "category", Value: 1}},
		Options: options.Index().SetName("category_index"),
	}

	_, err := indexes.CreateMany(ctx, []mongo.IndexModel{nameIndex, categoryIndex})
	if err != nil {
		log.Errorln("EnsureProductIndexes: index error:", err)
		return err
	}
	return nil
}

func EnsureOrderIndexes(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	indexes := db.Collection("orders").Indexes()

	userIndex := mongo.IndexModel{
		Keys:    bson.D{{Key: "user", Value: 1}},
		Options: options.Index().SetName("user_index"),
	}

	_, err := indexes.CreateOne(ctx, userIndex)
	if err != nil {
		log.Errorln("EnsureOrderIndexes: user index error:", err)
		return err
	}
	return nil
}
