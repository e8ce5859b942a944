package main

import (
	"fmt"
	"log"
	"net/url"
	"os"

	_ "github.com/MutheuMC/Interview-ACTSERV/docs"
	"github.com/MutheuMC/Interview-ACTSERV/src/database"
	"github.com/MutheuMC/Interview-ACTSERV/src/jobs"
	"github.com/MutheuMC/Interview-ACTSERV/src/routes"
	"github.com/MutheuMC/Interview-ACTSERV/src/seeder"
	"github.com/MutheuMC/Interview-ACTSERV/src/services/auth"
	"github.com/MutheuMC/Interview-ACTSERV/src/services/forms"
	"github.com/MutheuMC/Interview-ACTSERV/src/services/notifications"
	"github.com/MutheuMC/Interview-ACTSERV/src/services/submissions"
	"github.com/MutheuMC/Interview-ACTSERV/src/services/uploads"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/swagger"
)

// @title Form Builder API
// @version 1.0
// @description Dynamic form versioning, validation and submission service
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {

	// เชื่อมต่อกับ MongoDB
	err := database.ConnectMongoDB()
	if err != nil {
		log.Fatalf("Error connecting to the database: %v", err)
	}

	// Redis + Asynq เป็น optional: ไม่มีก็รันได้
	database.InitRedis()
	database.InitAsynq()

	auth.InitAuthService()
	forms.InitFormService()
	submissions.InitSubmissionService()
	notifications.InitNotificationService()
	uploads.InitUploadService()

	if os.Getenv("SEED_DEMO") == "true" {
		if err := seeder.SeedDemoData(); err != nil {
			log.Println("⚠️ Demo seed failed:", err)
		}
	}

	// background worker + periodic jobs
	jobs.StartWorker()
	jobs.StartScheduler()

	// สร้าง app instance
	app := fiber.New()

	// ✅ เปิดใช้งาน CORS Middleware
	app.Use(cors.New(cors.Config{
		AllowOrigins:     "*",
		AllowMethods:     "GET,POST,PUT,PATCH,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: false, // ❌ ต้องเป็น false ถ้าใช้ "*"
	}))

	// เปิดใช้งาน Swagger ที่ URL /swagger
	app.Get("/swagger/*", swagger.HandlerDefault)

	// รวม routes จากแต่ละ module
	routes.InitRoutes(app)

	// get url from .env
	appURI := os.Getenv("APP_URI")
	if appURI == "" {
		appURI = "8888" // ใช้ 8888 เป็นค่าเริ่มต้น
	}

	// เริ่มเซิร์ฟเวอร์
	log.Println("Server is running on port " + appURI)
	err = app.Listen(fmt.Sprintf(":%s", url.PathEscape(appURI)))
	if err != nil {
		log.Fatal(err)
	}

}
