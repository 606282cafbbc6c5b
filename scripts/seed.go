package main

import (
	"log"

	"sinfony/config"
	"sinfony/database"
	"sinfony/models"
	"sinfony/models/training"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"
)

// Seeds a demo organization, a platform CSM account and one sample module so
// a fresh environment is usable right away. Safe to re-run: existing rows are
// left alone.
func main() {
	config.LoadConfig()
	database.ConnectDb()

	db := database.Database.Db

	var org models.Organization
	if err := db.Where("domain = ?", "hospitalsaolucas.com.br").First(&org).Error; err != nil {
		org = models.Organization{
			Name:         "Hospital São Lucas",
			Domain:       "hospitalsaolucas.com.br",
			PrimaryColor: "#0B6E4F",
		}
		if err := db.Create(&org).Error; err != nil {
			log.Fatalf("Failed to seed organization: %v", err)
		}
		log.Printf("Created organization %s (id=%d)", org.Name, org.ID)
	}

	seedUser("admin@sinfony.app", "Sinfony Admin", models.RoleSuperAdmin, nil)
	seedUser("csm@sinfony.app", "Customer Success", models.RoleCSM, nil)
	seedUser("coordenacao@hospitalsaolucas.com.br", "Coordenação de Treinamento", models.RoleCoordinator, &org.ID)

	seedSampleModule()

	log.Println("Seed finished.")
}

func seedUser(email, name, role string, orgID *uint) {
	db := database.Database.Db

	var existing models.User
	if err := db.Where("email = ?", email).First(&existing).Error; err == nil {
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte("changeme123"), config.AppConfig.SaltRound)
	if err != nil {
		log.Fatalf("Failed to hash seed password: %v", err)
	}

	user := models.User{
		Name:           name,
		Email:          email,
		Password:       string(hashed),
		Role:           role,
		Status:         models.StatusActive,
		OrganizationID: orgID,
		Badges:         datatypes.JSONSlice[string]{"iniciante"},
	}
	if err := db.Create(&user).Error; err != nil {
		log.Fatalf("Failed to seed user %s: %v", email, err)
	}
	log.Printf("Created %s user %s", role, email)
}

func seedSampleModule() {
	db := database.Database.Db

	var existing training.TrainingModule
	if err := db.Where("title = ?", "Higienização das Mãos").First(&existing).Error; err == nil {
		return
	}

	module := training.TrainingModule{
		Title:             "Higienização das Mãos",
		Description:       "Protocolo de higienização das mãos conforme as diretrizes da ANVISA.",
		Category:          "enfermagem",
		EstimatedDuration: 30,
		IsActive:          true,
	}
	if err := db.Create(&module).Error; err != nil {
		log.Fatalf("Failed to seed module: %v", err)
	}

	quiz := training.Quiz{ModuleID: module.ID, Title: "Avaliação final"}
	if err := db.Create(&quiz).Error; err != nil {
		log.Fatalf("Failed to seed quiz: %v", err)
	}

	questions := []training.Question{
		{
			QuizID:       quiz.ID,
			QuestionText: "Quantos são os momentos para higienização das mãos segundo a OMS?",
			Options:      datatypes.JSONSlice[string]{"Três", "Cinco", "Sete", "Dez"},
			CorrectIndex: 1,
			OrderIndex:   1,
		},
		{
			QuizID:       quiz.ID,
			QuestionText: "Qual a duração mínima recomendada para a fricção com preparação alcoólica?",
			Options:      datatypes.JSONSlice[string]{"5 segundos", "20 a 30 segundos", "2 minutos", "5 minutos"},
			CorrectIndex: 1,
			OrderIndex:   2,
		},
	}
	for i := range questions {
		if err := db.Create(&questions[i]).Error; err != nil {
			log.Fatalf("Failed to seed question: %v", err)
		}
	}

	topics := []training.Topic{
		{
			ModuleID:    module.ID,
			Title:       "Introdução ao protocolo",
			Type:        training.TopicText,
			TextContent: "A higienização das mãos é a medida isolada mais eficaz na prevenção de infecções relacionadas à assistência à saúde.",
			OrderIndex:  1,
		},
		{
			ModuleID:   module.ID,
			Title:      "Demonstração em vídeo",
			Type:       training.TopicVideo,
			VideoURL:   "https://videos.sinfony.app/higienizacao-maos.mp4",
			OrderIndex: 2,
		},
		{
			ModuleID:   module.ID,
			Title:      "Avaliação final",
			Type:       training.TopicQuiz,
			QuizID:     &quiz.ID,
			OrderIndex: 3,
		},
	}
	for i := range topics {
		if err := db.Create(&topics[i]).Error; err != nil {
			log.Fatalf("Failed to seed topic: %v", err)
		}
	}

	log.Printf("Created sample module %q with %d topics", module.Title, len(topics))
}
