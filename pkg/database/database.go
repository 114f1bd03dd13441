package database

import (
	"fmt"
	"log"

	"tla_backend/internal/config"
	"tla_backend/internal/model"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func InitDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=%t&loc=Local",
		cfg.User,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.DBName,
		cfg.Charset,
		cfg.ParseTime,
	)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Info),
	})

	if err != nil {
		return nil, err
	}

	log.Println("Database connection established")

	if err := Migrate(db); err != nil {
		return nil, err
	}

	log.Println("Database migration completed")

	SeedDefaults(db)

	return db, nil
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.User{},
		&model.Subject{},
		&model.Vocabulary{},
		&model.Challenge{},
		&model.GameSession{},
		&model.ChallengeAttempt{},
		&model.UserProgress{},
		&model.Achievement{},
	)
}

// SeedDefaults 空库时插入默认主题、词条、题目和成就
func SeedDefaults(db *gorm.DB) {
	var subjectCount int64
	db.Model(&model.Subject{}).Count(&subjectCount)
	if subjectCount == 0 {
		seedSubjects(db)
	}

	var achievementCount int64
	db.Model(&model.Achievement{}).Count(&achievementCount)
	if achievementCount == 0 {
		seedAchievements(db)
	}
}

func seedSubjects(db *gorm.DB) {
	type seedTerm struct {
		Term       string
		Definition string
		FullForm   string
		Example    string
		Difficulty int
	}

	subjects := []struct {
		Subject model.Subject
		Terms   []seedTerm
	}{
		{
			Subject: model.Subject{Name: "Technology", Description: "Common technology and software development acronyms", Icon: "laptop", Color: "#3B82F6", Difficulty: 2, IsActive: true},
			Terms: []seedTerm{
				{"API", "A set of protocols and tools for building software applications", "Application Programming Interface", "The weather app uses an API to get current weather data", 1},
				{"SQL", "A programming language designed for managing data in relational databases", "Structured Query Language", "We use SQL to query the user database", 2},
				{"REST", "An architectural style for designing networked applications", "Representational State Transfer", "Our REST API follows standard HTTP methods", 3},
			},
		},
		{
			Subject: model.Subject{Name: "Medical", Description: "Medical and healthcare terminology", Icon: "heart", Color: "#EF4444", Difficulty: 3, IsActive: true},
			Terms: []seedTerm{
				{"CPR", "An emergency procedure to restore blood circulation and breathing", "Cardiopulmonary Resuscitation", "The paramedic performed CPR on the patient", 1},
				{"MRI", "A medical imaging technique using magnetic fields and radio waves", "Magnetic Resonance Imaging", "The doctor ordered an MRI to examine the brain injury", 2},
			},
		},
		{
			Subject: model.Subject{Name: "Business", Description: "Business and finance acronyms", Icon: "briefcase", Color: "#10B981", Difficulty: 2, IsActive: true},
			Terms: []seedTerm{
				{"ROI", "A measure of the efficiency of an investment", "Return on Investment", "The marketing campaign had a 300% ROI", 1},
				{"KPI", "A measurable value that demonstrates effectiveness in achieving objectives", "Key Performance Indicator", "Customer satisfaction is our primary KPI", 2},
			},
		},
	}

	for _, s := range subjects {
		subject := s.Subject
		if err := db.Create(&subject).Error; err != nil {
			log.Printf("seed subject %s failed: %v", subject.Name, err)
			continue
		}

		var vocab []model.Vocabulary
		for _, t := range s.Terms {
			vocab = append(vocab, model.Vocabulary{
				SubjectID:  subject.ID,
				Term:       t.Term,
				Definition: t.Definition,
				FullForm:   t.FullForm,
				Example:    t.Example,
				Difficulty: t.Difficulty,
				IsActive:   true,
			})
		}
		if err := db.Create(&vocab).Error; err != nil {
			log.Printf("seed vocabulary for %s failed: %v", subject.Name, err)
			continue
		}

		// 每个词条派生一道选择题，干扰项取同主题其他词条的全称
		for i, v := range vocab {
			var distractors model.StringList
			for j, other := range vocab {
				if j != i {
					distractors = append(distractors, other.FullForm)
				}
			}
			challenge := model.Challenge{
				SubjectID:     subject.ID,
				VocabularyID:  v.ID,
				Type:          model.ChallengeTypeMultipleChoice,
				Level:         v.Difficulty,
				Prompt:        fmt.Sprintf("What does %s stand for?", v.Term),
				CorrectAnswer: v.FullForm,
				Distractors:   distractors,
				TimeLimit:     30,
				XPReward:      10 * v.Difficulty,
				Difficulty:    v.Difficulty,
				IsActive:      true,
			}
			if err := db.Create(&challenge).Error; err != nil {
				log.Printf("seed challenge for %s failed: %v", v.Term, err)
			}
		}
	}
}

func seedAchievements(db *gorm.DB) {
	achievements := []model.Achievement{
		{Name: "First Steps", Description: "Complete your first vocabulary term", Icon: "star", Category: "milestone", Requirement: 1, XPReward: 10},
		{Name: "Quick Learner", Description: "Master 10 terms in a single subject", Icon: "lightning", Category: "mastery", Requirement: 10, XPReward: 50},
		{Name: "Streak Master", Description: "Maintain a 7-day learning streak", Icon: "fire", Category: "streak", Requirement: 7, XPReward: 100},
		{Name: "Subject Explorer", Description: "Try vocabulary from 3 different subjects", Icon: "compass", Category: "exploration", Requirement: 3, XPReward: 75},
	}
	for _, a := range achievements {
		db.Create(&a)
	}
}
