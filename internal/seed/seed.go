package seed

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"yatube/internal/models"

	"gorm.io/gorm"
)

// Seeder populates the database with a connected mesh of demo users,
// groups, posts, comments and follows.
type Seeder struct {
	db      *gorm.DB
	factory *Factory
	rng     *rand.Rand
}

// NewSeeder creates a Seeder with default options.
func NewSeeder(db *gorm.DB) *Seeder {
	return NewSeederWithOptions(db, Options{})
}

// NewSeederWithOptions creates a Seeder with explicit options.
func NewSeederWithOptions(db *gorm.DB, opts Options) *Seeder {
	return &Seeder{
		db:      db,
		factory: NewFactory(db, opts),
		rng:     rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// ClearAll removes all seeded data. Deletion order respects foreign keys on
// databases that do not cascade.
func (s *Seeder) ClearAll() error {
	log.Println("Clearing existing data...")
	for _, model := range []any{
		&models.Comment{},
		&models.Follow{},
		&models.Post{},
		&models.Group{},
		&models.User{},
	} {
		if err := s.db.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(model).Error; err != nil {
			return fmt.Errorf("clearing %T: %w", model, err)
		}
	}
	return nil
}

// SeedGroups creates the given number of groups.
func (s *Seeder) SeedGroups(count int) ([]*models.Group, error) {
	groups := make([]*models.Group, 0, count)
	for i := 0; i < count; i++ {
		group, err := s.factory.CreateGroup()
		if err != nil {
			return nil, fmt.Errorf("creating group: %w", err)
		}
		groups = append(groups, group)
	}
	log.Printf("Created %d groups", len(groups))
	return groups, nil
}

// SeedUsers creates the given number of users who all share the demo
// password password123.
func (s *Seeder) SeedUsers(count int) ([]*models.User, error) {
	users := make([]*models.User, 0, count)
	for i := 0; i < count; i++ {
		user, err := s.factory.CreateUser()
		if err != nil {
			return nil, fmt.Errorf("creating user: %w", err)
		}
		users = append(users, user)
	}
	log.Printf("Created %d users", len(users))
	return users, nil
}

// SeedPosts creates posts spread across the users, assigning roughly two
// thirds of them to a random group.
func (s *Seeder) SeedPosts(users []*models.User, groups []*models.Group, count int) ([]*models.Post, error) {
	if len(users) == 0 {
		return nil, fmt.Errorf("no users to author posts")
	}

	posts := make([]*models.Post, 0, count)
	for i := 0; i < count; i++ {
		author := users[s.rng.Intn(len(users))]
		var group *models.Group
		if len(groups) > 0 && s.rng.Intn(3) != 0 {
			group = groups[s.rng.Intn(len(groups))]
		}
		posts = append(posts, s.factory.BuildPost(author, group))
	}
	if err := s.factory.CreatePostsBatch(posts); err != nil {
		return nil, fmt.Errorf("creating posts: %w", err)
	}
	log.Printf("Created %d posts", len(posts))
	return posts, nil
}

// SeedEngagement sprinkles comments and follow edges over the mesh.
func (s *Seeder) SeedEngagement(users []*models.User, posts []*models.Post) error {
	if len(users) == 0 || len(posts) == 0 {
		return nil
	}

	comments := 0
	for _, post := range posts {
		for i := 0; i < s.rng.Intn(4); i++ {
			author := users[s.rng.Intn(len(users))]
			if _, err := s.factory.CreateComment(post, author); err != nil {
				return fmt.Errorf("creating comment: %w", err)
			}
			comments++
		}
	}

	follows := 0
	for _, user := range users {
		for i := 0; i < s.rng.Intn(5); i++ {
			author := users[s.rng.Intn(len(users))]
			if err := s.factory.CreateFollow(user.ID, author.ID); err != nil {
				return fmt.Errorf("creating follow: %w", err)
			}
			follows++
		}
	}

	log.Printf("Created %d comments and up to %d follows", comments, follows)
	return nil
}
