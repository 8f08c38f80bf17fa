package repositories

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/oyolcinar/dus-notify/internal/models"
)

// TemplateRepository defines the interface for notification templates
type TemplateRepository interface {
	GetByName(ctx context.Context, name string) (*models.NotificationTemplate, error)
	Upsert(ctx context.Context, template *models.NotificationTemplate) error
	Seed(ctx context.Context) error
}

// MongoTemplateRepository implements TemplateRepository for MongoDB
type MongoTemplateRepository struct {
	collection *mongo.Collection
}

// NewMongoTemplateRepository creates a new MongoTemplateRepository
func NewMongoTemplateRepository(db *mongo.Database) *MongoTemplateRepository {
	return &MongoTemplateRepository{collection: db.Collection("notification_templates")}
}

func (r *MongoTemplateRepository) GetByName(ctx context.Context, name string) (*models.NotificationTemplate, error) {
	var template models.NotificationTemplate
	err := r.collection.FindOne(ctx, bson.M{"name": name}).Decode(&template)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("template %q not found", name)
		}
		return nil, err
	}
	return &template, nil
}

func (r *MongoTemplateRepository) Upsert(ctx context.Context, template *models.NotificationTemplate) error {
	if template.CreatedAt.IsZero() {
		template.CreatedAt = time.Now().UTC()
	}
	opts := options.Replace().SetUpsert(true)
	_, err := r.collection.ReplaceOne(ctx, bson.M{"name": template.Name}, template, opts)
	return err
}

// Seed installs the built-in templates, leaving existing ones untouched.
func (r *MongoTemplateRepository) Seed(ctx context.Context) error {
	builtin := []models.NotificationTemplate{
		{
			Name:  "test_push",
			Type:  models.TypeSystemAnnouncement,
			Title: "Test notification",
			Body:  "Push delivery is working for {{username}}.",
		},
		{
			Name:  "study_reminder",
			Type:  models.TypeStudyReminder,
			Title: "Time to study",
			Body:  "{{username}}, your {{course}} question set is waiting.",
			Icon:  "book",
		},
		{
			Name:  "duel_invitation",
			Type:  models.TypeDuelInvitation,
			Title: "New duel challenge",
			Body:  "{{opponent}} challenged you to a duel.",
			Icon:  "swords",
		},
	}

	for i := range builtin {
		count, err := r.collection.CountDocuments(ctx, bson.M{"name": builtin[i].Name})
		if err != nil {
			return err
		}
		if count > 0 {
			continue
		}
		if err := r.Upsert(ctx, &builtin[i]); err != nil {
			return err
		}
	}
	return nil
}
