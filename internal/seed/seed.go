// Package seed provides database seeding utilities for development and testing.
package seed

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"fitpulse/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Options configuration for the seeder
type Options struct {
	NumUsers    int
	NumPosts    int
	ShouldClean bool
}

// categoryNames is the workout category catalog. The first three double
// as the default interests linked to brand-new members.
var categoryNames = []string{
	"Cardio", "Strength", "Yoga", "HIIT", "Pilates", "CrossFit",
	"Running", "Cycling", "Swimming", "Boxing",
}

var postTemplates = []string{
	"Just finished a %s session. %s",
	"Anyone else doing %s this week? %s",
	"New personal best in %s today! %s",
	"Struggling to stay consistent with %s. %s",
	"Loving my new %s routine. %s",
}

// Seed populates the database with test data
func Seed(db *gorm.DB, opts Options) error {
	log.Printf("🌱 Starting database seeding with %d users and %d posts...", opts.NumUsers, opts.NumPosts)

	gofakeit.Seed(time.Now().UnixNano())

	if opts.ShouldClean {
		if err := clearData(db); err != nil {
			log.Println("⚠️  Warning: Could not clear all existing data, but continuing anyway...")
		}
	}

	categories, err := createOrGetCategories(db)
	if err != nil {
		return fmt.Errorf("failed to create workout categories: %w", err)
	}
	log.Printf("✓ %d workout categories available", len(categories))

	profiles, err := createMembers(db, opts.NumUsers, categories)
	if err != nil {
		return fmt.Errorf("failed to create members: %w", err)
	}
	log.Printf("✓ %d test members created", len(profiles))

	posts, err := createPosts(db, profiles, opts.NumPosts)
	if err != nil {
		return fmt.Errorf("failed to create posts: %w", err)
	}
	log.Printf("✓ %d posts created", len(posts))

	if err := createComments(db, profiles, posts); err != nil {
		return fmt.Errorf("failed to create comments: %w", err)
	}

	log.Println("🎉 Database seeding completed successfully!")
	return nil
}

func clearData(db *gorm.DB) error {
	log.Println("🗑️  Clearing existing data...")
	sql := `TRUNCATE TABLE comments, community_posts, user_workouts, workout_categories, profiles, credentials RESTART IDENTITY CASCADE;`
	return db.Exec(sql).Error
}

func createOrGetCategories(db *gorm.DB) ([]models.WorkoutCategory, error) {
	categories := make([]models.WorkoutCategory, 0, len(categoryNames))
	for _, name := range categoryNames {
		var category models.WorkoutCategory
		err := db.Where(models.WorkoutCategory{Name: name}).
			FirstOrCreate(&category).Error
		if err != nil {
			return nil, err
		}
		categories = append(categories, category)
	}
	return categories, nil
}

func createMembers(db *gorm.DB, count int, categories []models.WorkoutCategory) ([]models.Profile, error) {
	profiles := make([]models.Profile, 0, count)
	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("Password123"), bcrypt.DefaultCost)

	// Always include a known account for manual testing
	if count >= 1 {
		if p, err := createMember(db, "Test Member", "test@example.com", string(hashedPassword), categories); err == nil {
			profiles = append(profiles, *p)
		}
	}

	for i := len(profiles); i < count; i++ {
		name := gofakeit.Name()
		email := fmt.Sprintf("%s%d@example.com", gofakeit.Username(), i)
		p, err := createMember(db, name, email, string(hashedPassword), categories)
		if err != nil {
			continue
		}
		profiles = append(profiles, *p)
	}
	return profiles, nil
}

func createMember(db *gorm.DB, name, email, hashed string, categories []models.WorkoutCategory) (*models.Profile, error) {
	bio := gofakeit.Sentence(8)
	avatar := fmt.Sprintf("https://i.pravatar.cc/150?u=%s", email)
	level := []string{"Beginner", "Intermediate", "Advanced"}[rand.Intn(3)]

	var profile *models.Profile
	err := db.Transaction(func(tx *gorm.DB) error {
		cred := models.Credential{Email: email, Password: hashed}
		if err := tx.Create(&cred).Error; err != nil {
			return err
		}
		profile = &models.Profile{
			ID:           cred.ID,
			FullName:     name,
			Email:        email,
			Bio:          &bio,
			AvatarURL:    &avatar,
			FitnessLevel: &level,
			Goals:        []string{"Weight Loss", "Muscle Gain", "Flexibility"}[:1+rand.Intn(3)],
		}
		if err := tx.Create(profile).Error; err != nil {
			return err
		}

		// Link a few workout interests
		for _, c := range pickCategories(categories, 1+rand.Intn(3)) {
			link := models.UserWorkout{UserID: cred.ID, CategoryID: c.ID}
			if err := tx.Create(&link).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return profile, nil
}

func pickCategories(categories []models.WorkoutCategory, n int) []models.WorkoutCategory {
	if n > len(categories) {
		n = len(categories)
	}
	picked := make([]models.WorkoutCategory, len(categories))
	copy(picked, categories)
	rand.Shuffle(len(picked), func(i, j int) { picked[i], picked[j] = picked[j], picked[i] })
	return picked[:n]
}

func createPosts(db *gorm.DB, profiles []models.Profile, count int) ([]models.Post, error) {
	if len(profiles) == 0 {
		return nil, nil
	}

	posts := make([]models.Post, 0, count)
	for i := 0; i < count; i++ {
		author := profiles[rand.Intn(len(profiles))]
		template := postTemplates[rand.Intn(len(postTemplates))]
		category := categoryNames[rand.Intn(len(categoryNames))]

		post := models.Post{
			Content:   fmt.Sprintf(template, category, gofakeit.Sentence(6)),
			Likes:     rand.Intn(40),
			UserID:    author.ID,
			CreatedAt: time.Now().Add(-time.Duration(rand.Intn(72)) * time.Hour),
		}
		if err := db.Create(&post).Error; err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}
	return posts, nil
}

func createComments(db *gorm.DB, profiles []models.Profile, posts []models.Post) error {
	if len(profiles) == 0 {
		return nil
	}

	for _, post := range posts {
		for i := 0; i < rand.Intn(4); i++ {
			author := profiles[rand.Intn(len(profiles))]
			comment := models.Comment{
				PostID:  post.ID,
				UserID:  author.ID,
				Content: gofakeit.Sentence(10),
			}
			if err := db.Create(&comment).Error; err != nil {
				return err
			}
		}
	}
	return nil
}
