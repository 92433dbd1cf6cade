// Package gormstore implements the platform data contract on top of GORM.
//
// Relationship expansions are serialized as single-element collections for
// to-one joins, the same wire shape the hosted platform this service
// replaced used to produce. The normalization obligation therefore stays
// where the contract puts it: with the caller.
package gormstore

import (
	"context"
	"fmt"

	"fitpulse/internal/models"
	"fitpulse/internal/platform"

	"gorm.io/gorm"
)

// Store is a platform.Store backed by a GORM database handle.
type Store struct {
	db *gorm.DB
}

// New creates a Store over the given database handle.
func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Select implements platform.Store.
func (s *Store) Select(ctx context.Context, q platform.SelectQuery) ([]platform.Row, error) {
	tx := s.applyClauses(s.db.WithContext(ctx), q.Filters, q.Order, q.Limit)

	switch q.Relation {
	case "community_posts":
		var posts []models.Post
		if err := preloadPosts(tx, q.Expand).Find(&posts).Error; err != nil {
			return nil, err
		}
		rows := make([]platform.Row, 0, len(posts))
		for i := range posts {
			rows = append(rows, postRow(&posts[i], q.Expand))
		}
		return rows, nil

	case "comments":
		var comments []models.Comment
		if err := preloadComments(tx, q.Expand).Find(&comments).Error; err != nil {
			return nil, err
		}
		rows := make([]platform.Row, 0, len(comments))
		for i := range comments {
			rows = append(rows, commentRow(&comments[i], q.Expand))
		}
		return rows, nil

	case "profiles":
		var profiles []models.Profile
		if err := tx.Find(&profiles).Error; err != nil {
			return nil, err
		}
		rows := make([]platform.Row, 0, len(profiles))
		for i := range profiles {
			rows = append(rows, profileRow(&profiles[i]))
		}
		return rows, nil

	case "workout_categories":
		var categories []models.WorkoutCategory
		if err := tx.Find(&categories).Error; err != nil {
			return nil, err
		}
		rows := make([]platform.Row, 0, len(categories))
		for i := range categories {
			rows = append(rows, categoryRow(&categories[i]))
		}
		return rows, nil

	case "user_workouts":
		var links []models.UserWorkout
		if expands(q.Expand, "workout_categories") {
			tx = tx.Preload("Category")
		}
		if err := tx.Find(&links).Error; err != nil {
			return nil, err
		}
		rows := make([]platform.Row, 0, len(links))
		for i := range links {
			rows = append(rows, userWorkoutRow(&links[i], q.Expand))
		}
		return rows, nil
	}

	return nil, fmt.Errorf("gormstore: unknown relation %q", q.Relation)
}

// Insert implements platform.Store.
func (s *Store) Insert(ctx context.Context, relation string, values platform.Row, ret *platform.Returning) (platform.Row, error) {
	tx := s.db.WithContext(ctx)

	switch relation {
	case "community_posts":
		post := models.Post{
			Content: values.String("content"),
			UserID:  values.String("user_id"),
			Likes:   values.Int("likes"),
		}
		if err := tx.Create(&post).Error; err != nil {
			return nil, err
		}
		if ret == nil {
			return nil, nil
		}
		var full models.Post
		if err := preloadPosts(tx, ret.Expand).First(&full, "id = ?", post.ID).Error; err != nil {
			return nil, err
		}
		return postRow(&full, ret.Expand), nil

	case "comments":
		comment := models.Comment{
			Content: values.String("content"),
			PostID:  values.String("post_id"),
			UserID:  values.String("user_id"),
		}
		if err := tx.Create(&comment).Error; err != nil {
			return nil, err
		}
		if ret == nil {
			return nil, nil
		}
		var full models.Comment
		if err := preloadComments(tx, ret.Expand).First(&full, "id = ?", comment.ID).Error; err != nil {
			return nil, err
		}
		return commentRow(&full, ret.Expand), nil

	case "user_workouts":
		link := models.UserWorkout{
			UserID:     values.String("user_id"),
			CategoryID: values.String("category_id"),
		}
		if err := tx.Create(&link).Error; err != nil {
			return nil, err
		}
		if ret == nil {
			return nil, nil
		}
		return userWorkoutRow(&link, ret.Expand), nil
	}

	return nil, fmt.Errorf("gormstore: unknown relation %q", relation)
}

// Update implements platform.Store.
func (s *Store) Update(ctx context.Context, relation string, id string, values platform.Row) error {
	tx := s.db.WithContext(ctx)

	switch relation {
	case "community_posts":
		return tx.Model(&models.Post{}).Where("id = ?", id).Updates(map[string]any(values)).Error
	case "profiles":
		return tx.Model(&models.Profile{}).Where("id = ?", id).Updates(map[string]any(values)).Error
	}
	return fmt.Errorf("gormstore: unknown relation %q", relation)
}

func (s *Store) applyClauses(tx *gorm.DB, filters []platform.Filter, order *platform.Order, limit int) *gorm.DB {
	for _, f := range filters {
		switch f.Op {
		case platform.OpEq:
			tx = tx.Where(f.Column+" = ?", f.Value)
		case platform.OpIn:
			tx = tx.Where(f.Column+" IN ?", f.Value)
		}
	}
	if order != nil {
		direction := "ASC"
		if order.Descending {
			direction = "DESC"
		}
		tx = tx.Order(order.Column + " " + direction)
	}
	if limit > 0 {
		tx = tx.Limit(limit)
	}
	return tx
}

func expands(expand []platform.Expand, field string) bool {
	for _, e := range expand {
		if e.Field == field {
			return true
		}
	}
	return false
}

func nested(expand []platform.Expand, field string) []platform.Expand {
	for _, e := range expand {
		if e.Field == field {
			return e.Expand
		}
	}
	return nil
}

func preloadPosts(tx *gorm.DB, expand []platform.Expand) *gorm.DB {
	if expands(expand, "profiles") {
		tx = tx.Preload("Profile")
	}
	if expands(expand, "comments") {
		tx = tx.Preload("Comments", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		})
		if expands(nested(expand, "comments"), "profiles") {
			tx = tx.Preload("Comments.Profile")
		}
	}
	return tx
}

func preloadComments(tx *gorm.DB, expand []platform.Expand) *gorm.DB {
	if expands(expand, "profiles") {
		tx = tx.Preload("Profile")
	}
	return tx
}

func postRow(p *models.Post, expand []platform.Expand) platform.Row {
	row := platform.Row{
		"id":         p.ID,
		"content":    p.Content,
		"likes":      p.Likes,
		"user_id":    p.UserID,
		"created_at": p.CreatedAt,
	}
	if expands(expand, "profiles") {
		row["profiles"] = []platform.Row{profileRow(&p.Profile)}
	}
	if expands(expand, "comments") {
		nestedExpand := nested(expand, "comments")
		comments := make([]platform.Row, 0, len(p.Comments))
		for i := range p.Comments {
			comments = append(comments, commentRow(&p.Comments[i], nestedExpand))
		}
		row["comments"] = comments
	}
	return row
}

func commentRow(c *models.Comment, expand []platform.Expand) platform.Row {
	row := platform.Row{
		"id":         c.ID,
		"content":    c.Content,
		"post_id":    c.PostID,
		"user_id":    c.UserID,
		"created_at": c.CreatedAt,
	}
	if expands(expand, "profiles") {
		row["profiles"] = []platform.Row{profileRow(&c.Profile)}
	}
	return row
}

func profileRow(p *models.Profile) platform.Row {
	return platform.Row{
		"id":            p.ID,
		"full_name":     p.FullName,
		"email":         p.Email,
		"avatar_url":    derefString(p.AvatarURL),
		"bio":           derefString(p.Bio),
		"fitness_level": derefString(p.FitnessLevel),
		"goals":         p.Goals,
		"phone_number":  derefString(p.PhoneNumber),
		"created_at":    p.CreatedAt,
	}
}

func categoryRow(w *models.WorkoutCategory) platform.Row {
	return platform.Row{
		"id":         w.ID,
		"name":       w.Name,
		"created_at": w.CreatedAt,
	}
}

func userWorkoutRow(u *models.UserWorkout, expand []platform.Expand) platform.Row {
	row := platform.Row{
		"id":          u.ID,
		"user_id":     u.UserID,
		"category_id": u.CategoryID,
		"created_at":  u.CreatedAt,
	}
	if expands(expand, "workout_categories") {
		row["workout_categories"] = []platform.Row{categoryRow(&u.Category)}
	}
	return row
}

func derefString(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}
