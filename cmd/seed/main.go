// Seeds the fixed role/permission catalog and the default editorial
// workflow. Safe to re-run; existing rows are left untouched.
package main

import (
	"flag"
	"log"

	"editorial-api/config"
	"editorial-api/models"
	"editorial-api/services"

	"github.com/joho/godotenv"
)

func main() {
	migrate := flag.Bool("migrate", false, "run schema auto-migration before seeding")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	config.InitDB()

	if *migrate {
		err := config.DB.AutoMigrate(
			&models.User{},
			&models.Role{},
			&models.Permission{},
			&models.RolePermission{},
			&models.UserRole{},
			&models.UserProfile{},
			&models.Journal{},
			&models.Section{},
			&models.WorkflowState{},
			&models.WorkflowTransition{},
			&models.Manuscript{},
			&models.ManuscriptVersion{},
			&models.ManuscriptStatusHistory{},
			&models.EditorAssignment{},
			&models.Decision{},
			&models.ReviewRound{},
			&models.ReviewAssignment{},
			&models.Review{},
			&models.ReviewFile{},
			&models.Notification{},
		)
		if err != nil {
			log.Fatal("Migration failed:", err)
		}
		log.Println("Schema migrated")
	}

	if err := services.SeedCatalog(config.DB); err != nil {
		log.Fatal("Failed to seed role/permission catalog:", err)
	}
	log.Println("Role and permission catalog seeded")

	if err := services.SeedWorkflow(config.DB); err != nil {
		log.Fatal("Failed to seed workflow:", err)
	}
	log.Println("Default workflow seeded")
}
