package gormstore

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"fitpulse/internal/models"
	"fitpulse/internal/platform"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func testStore(t *testing.T) (*Store, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.Credential{}, &models.Profile{},
		&models.Post{}, &models.Comment{},
		&models.WorkoutCategory{}, &models.UserWorkout{},
	))
	return New(db), db
}

func createProfile(t *testing.T, db *gorm.DB, name string) models.Profile {
	t.Helper()
	p := models.Profile{FullName: name, Email: name + "@example.com"}
	require.NoError(t, db.Create(&p).Error)
	return p
}

func TestStore_Select_PostsWithExpansions(t *testing.T) {
	t.Parallel()
	store, db := testStore(t)

	maya := createProfile(t, db, "maya")
	raj := createProfile(t, db, "raj")

	older := models.Post{Content: "first", Likes: 3, UserID: maya.ID, CreatedAt: time.Now().Add(-time.Hour)}
	newer := models.Post{Content: "second", Likes: 1, UserID: maya.ID, CreatedAt: time.Now()}
	require.NoError(t, db.Create(&older).Error)
	require.NoError(t, db.Create(&newer).Error)
	require.NoError(t, db.Create(&models.Comment{PostID: older.ID, UserID: raj.ID, Content: "nice"}).Error)

	rows, err := store.Select(context.Background(), platform.SelectQuery{
		Relation: "community_posts",
		Order:    &platform.Order{Column: "created_at", Descending: true},
		Expand: []platform.Expand{
			{Field: "profiles", ToOne: true},
			{Field: "comments", Expand: []platform.Expand{{Field: "profiles", ToOne: true}}},
		},
	})
	require.NoError(t, err)
	require.Len(t, rows, 2)

	// newest first
	assert.Equal(t, "second", rows[0].String("content"))
	assert.Equal(t, "first", rows[1].String("content"))

	// to-one expansions come back as single-element collections
	authors, ok := rows[0]["profiles"].([]platform.Row)
	require.True(t, ok)
	require.Len(t, authors, 1)
	assert.Equal(t, "maya", authors[0].String("full_name"))

	comments, ok := rows[1]["comments"].([]platform.Row)
	require.True(t, ok)
	require.Len(t, comments, 1)
	commentAuthors, ok := comments[0]["profiles"].([]platform.Row)
	require.True(t, ok)
	require.Len(t, commentAuthors, 1)
	assert.Equal(t, "raj", commentAuthors[0].String("full_name"))
}

func TestStore_Select_FiltersAndLimit(t *testing.T) {
	t.Parallel()
	store, db := testStore(t)

	maya := createProfile(t, db, "maya")
	createProfile(t, db, "raj")

	rows, err := store.Select(context.Background(), platform.SelectQuery{
		Relation: "profiles",
		Filters:  []platform.Filter{platform.Eq("id", maya.ID)},
		Limit:    1,
	})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "maya", rows[0].String("full_name"))
}

func TestStore_Select_InFilter(t *testing.T) {
	t.Parallel()
	store, db := testStore(t)

	cardio := models.WorkoutCategory{Name: "Cardio"}
	yoga := models.WorkoutCategory{Name: "Yoga"}
	strength := models.WorkoutCategory{Name: "Strength"}
	require.NoError(t, db.Create(&cardio).Error)
	require.NoError(t, db.Create(&yoga).Error)
	require.NoError(t, db.Create(&strength).Error)

	rows, err := store.Select(context.Background(), platform.SelectQuery{
		Relation: "workout_categories",
		Filters:  []platform.Filter{platform.In("id", []string{cardio.ID, yoga.ID})},
	})
	require.NoError(t, err)
	assert.Len(t, rows, 2)
}

func TestStore_Select_UnknownRelation(t *testing.T) {
	t.Parallel()
	store, _ := testStore(t)

	_, err := store.Select(context.Background(), platform.SelectQuery{Relation: "nope"})
	assert.Error(t, err)
}

func TestStore_Insert_ReturnsJoinedRepresentation(t *testing.T) {
	t.Parallel()
	store, db := testStore(t)

	maya := createProfile(t, db, "maya")

	row, err := store.Insert(context.Background(), "community_posts",
		platform.Row{"content": "hello", "user_id": maya.ID},
		&platform.Returning{Expand: []platform.Expand{
			{Field: "profiles", ToOne: true},
			{Field: "comments"},
		}},
	)
	require.NoError(t, err)
	require.NotNil(t, row)
	assert.NotEmpty(t, row.String("id"), "server generates the id")
	assert.Equal(t, 0, row.Int("likes"))

	authors, ok := row["profiles"].([]platform.Row)
	require.True(t, ok)
	require.Len(t, authors, 1)
	assert.Equal(t, "maya", authors[0].String("full_name"))
}

func TestStore_Insert_NilReturning(t *testing.T) {
	t.Parallel()
	store, db := testStore(t)

	maya := createProfile(t, db, "maya")
	row, err := store.Insert(context.Background(), "community_posts",
		platform.Row{"content": "hello", "user_id": maya.ID, "likes": 12}, nil)
	require.NoError(t, err)
	assert.Nil(t, row)

	var post models.Post
	require.NoError(t, db.First(&post).Error)
	assert.Equal(t, 12, post.Likes)
}

func TestStore_Update_Likes(t *testing.T) {
	t.Parallel()
	store, db := testStore(t)

	maya := createProfile(t, db, "maya")
	post := models.Post{Content: "hello", Likes: 5, UserID: maya.ID}
	require.NoError(t, db.Create(&post).Error)

	require.NoError(t, store.Update(context.Background(), "community_posts", post.ID, platform.Row{"likes": 6}))

	var got models.Post
	require.NoError(t, db.First(&got, "id = ?", post.ID).Error)
	assert.Equal(t, 6, got.Likes)
}

func TestStore_UserWorkouts(t *testing.T) {
	t.Parallel()
	store, db := testStore(t)

	maya := createProfile(t, db, "maya")
	cardio := models.WorkoutCategory{Name: "Cardio"}
	require.NoError(t, db.Create(&cardio).Error)

	_, err := store.Insert(context.Background(), "user_workouts",
		platform.Row{"user_id": maya.ID, "category_id": cardio.ID}, nil)
	require.NoError(t, err)

	rows, err := store.Select(context.Background(), platform.SelectQuery{
		Relation: "user_workouts",
		Filters:  []platform.Filter{platform.Eq("user_id", maya.ID)},
	})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, cardio.ID, rows[0].String("category_id"))
}
