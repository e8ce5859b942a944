package database

import (
	"context"
	"fmt"
	"log"
	"os"
	"sync"

	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const DBName = "ActservDB"

var (
	client     *mongo.Client
	once       sync.Once // ✅ ป้องกันการรัน ConnectMongoDB() ซ้ำ
	connectErr error
)

// ConnectMongoDB เชื่อมต่อกับ MongoDB แค่ครั้งเดียว
func ConnectMongoDB() error {

	// โหลดค่า Environment Variables จากไฟล์ .env
	err := godotenv.Load()
	if err != nil {
		log.Println("⚠️ Warning: No .env file found")
	}

	mongoURI := os.Getenv("MONGO_URI")
	if mongoURI == "" {
		log.Fatal("❌ MONGO_URI environment variable not set. Please create a .env file and set it.")
	}

	once.Do(func() { // ✅ Run only once
		clientOptions := options.Client().ApplyURI(mongoURI)

		client, connectErr = mongo.Connect(context.TODO(), clientOptions)
		if connectErr != nil {
			log.Fatal("❌ Failed to connect to MongoDB:", connectErr)
			return
		}

		// ตรวจสอบการเชื่อมต่อ
		connectErr = client.Ping(context.TODO(), readpref.Primary())
		if connectErr != nil {
			log.Fatal("❌ MongoDB ping failed:", connectErr)
			return
		}

		log.Println("✅ MongoDB connected successfully")

		if err := EnsureIndexes(); err != nil {
			log.Fatal("❌ Failed to ensure indexes:", err)
		}
	})

	return connectErr
}

// EnsureIndexes sets up the indexes the services rely on. The unique
// (formId, versionNumber) index is what keeps version numbers contiguous
// when two callers version the same form at once.
func EnsureIndexes() error {
	ctx := context.TODO()

	_, err := GetCollection(DBName, "form_versions").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "formId", Value: 1}, {Key: "versionNumber", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("uniq_form_version"),
	})
	if err != nil {
		return fmt.Errorf("form_versions index: %w", err)
	}

	_, err = GetCollection(DBName, "form_fields").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "versionId", Value: 1}, {Key: "name", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("uniq_version_field_name"),
	})
	if err != nil {
		return fmt.Errorf("form_fields index: %w", err)
	}

	_, err = GetCollection(DBName, "forms").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "name", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("uniq_form_name"),
	})
	if err != nil {
		return fmt.Errorf("forms index: %w", err)
	}

	_, err = GetCollection(DBName, "submissions").Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "formId", Value: 1}, {Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "submittedBy", Value: 1}, {Key: "createdAt", Value: -1}}},
	})
	if err != nil {
		return fmt.Errorf("submissions index: %w", err)
	}

	_, err = GetCollection(DBName, "notification_logs").Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "status", Value: 1}, {Key: "attempts", Value: 1}}},
		{Keys: bson.D{{Key: "createdAt", Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("notification_logs index: %w", err)
	}

	_, err = GetCollection(DBName, "file_uploads").Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "submissionId", Value: 1}}},
		{Keys: bson.D{{Key: "responseId", Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("file_uploads index: %w", err)
	}

	_, err = GetCollection(DBName, "users").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("uniq_user_email"),
	})
	if err != nil {
		return fmt.Errorf("users index: %w", err)
	}

	log.Println("✅ MongoDB indexes ensured")
	return nil
}

// ListDatabases แสดงรายการ Database ทั้งหมด
func ListDatabases() {
	if client == nil {
		log.Fatal("❌ MongoDB client is nil")
	}

	dbs, err := client.ListDatabaseNames(context.TODO(), bson.M{})
	if err != nil {
		log.Fatal("❌ Error listing databases:", err)
	}

	fmt.Println("📌 Databases in MongoDB:")
	for _, db := range dbs {
		fmt.Println(" -", db)
	}
}

// GetCollection รับ Collection จาก MongoDB
func GetCollection(dbName, collectionName string) *mongo.Collection {
	if client == nil {
		log.Fatal("❌ MongoDB client is nil")
	}
	return client.Database(dbName).Collection(collectionName)
}
