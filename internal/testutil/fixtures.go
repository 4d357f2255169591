package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/smartintruesdell/CubeCobra/internal/domain"
	"github.com/smartintruesdell/CubeCobra/internal/service"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// UserBuilder creates test users with a builder pattern
type UserBuilder struct {
	displayName string
	password    string
	admin       bool
}

// NewUserBuilder creates a new UserBuilder with default values
func NewUserBuilder() *UserBuilder {
	return &UserBuilder{
		displayName: fmt.Sprintf("testuser_%s", uuid.New().String()[:8]),
		password:    "testpassword123",
	}
}

// WithDisplayName sets the display name
func (b *UserBuilder) WithDisplayName(name string) *UserBuilder {
	b.displayName = name
	return b
}

// WithPassword sets the password
func (b *UserBuilder) WithPassword(password string) *UserBuilder {
	b.password = password
	return b
}

// WithAdmin marks the user as a site admin
func (b *UserBuilder) WithAdmin() *UserBuilder {
	b.admin = true
	return b
}

// Build creates the user in the database and returns the user with the raw password
func (b *UserBuilder) Build(t *testing.T, db *gorm.DB) (*domain.User, string) {
	t.Helper()

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(b.password), bcrypt.DefaultCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &domain.User{
		ID:           uuid.New(),
		DisplayName:  b.displayName,
		PasswordHash: string(hashedPassword),
		IsAdmin:      b.admin,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}

	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create user: %v", err)
	}

	return user, b.password
}

// BuildViewer creates the user and returns the identity a request would carry
func (b *UserBuilder) BuildViewer(t *testing.T, db *gorm.DB) *domain.Viewer {
	t.Helper()

	user, _ := b.Build(t, db)
	return &domain.Viewer{UserID: user.ID, DisplayName: user.DisplayName, IsAdmin: user.IsAdmin}
}

// AuthResponse matches the API auth response
type AuthResponse struct {
	User struct {
		ID          string `json:"id"`
		DisplayName string `json:"displayName"`
		IsAdmin     bool   `json:"isAdmin"`
	} `json:"user"`
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// BuildAndAuthenticate creates a user via API and returns the user and access token
func (b *UserBuilder) BuildAndAuthenticate(t *testing.T, ts *TestServer) (*domain.User, string) {
	t.Helper()

	reqBody := map[string]string{
		"displayName": b.displayName,
		"password":    b.password,
	}
	body, _ := json.Marshal(reqBody)

	resp, err := http.Post(ts.APIURL("/auth/register"), "application/json", bytes.NewBuffer(body))
	if err != nil {
		t.Fatalf("failed to register user: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("unexpected status code: %d", resp.StatusCode)
	}

	var authResp AuthResponse
	if err := json.NewDecoder(resp.Body).Decode(&authResp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	userID, _ := uuid.Parse(authResp.User.ID)
	user := &domain.User{
		ID:          userID,
		DisplayName: authResp.User.DisplayName,
	}

	return user, authResp.AccessToken
}

// BuildAndLogin creates the user directly, so admin users are possible, and
// logs in through the auth service.
func (b *UserBuilder) BuildAndLogin(t *testing.T, ts *TestServer) (*domain.User, string) {
	t.Helper()

	user, password := b.Build(t, ts.DB.DB)
	result, err := ts.Services.Auth.Login(context.Background(), service.LoginInput{
		DisplayName: user.DisplayName,
		Password:    password,
	})
	if err != nil {
		t.Fatalf("failed to log in: %v", err)
	}
	return user, result.AccessToken
}

// CardBuilder creates catalog cards with a builder pattern
type CardBuilder struct {
	card domain.Card
}

// NewCardBuilder creates a new CardBuilder with default values
func NewCardBuilder() *CardBuilder {
	id := uuid.New().String()
	return &CardBuilder{card: domain.Card{
		ID:            id,
		OracleID:      uuid.New().String(),
		Name:          "Test Card " + id[:8],
		SetCode:       "tst",
		Rarity:        domain.RarityCommon,
		TypeLine:      "Creature — Test",
		CMC:           2,
		ColorIdentity: datatypes.JSONSlice[string]{},
		Legalities:    datatypes.NewJSONType(map[string]string{"vintage": "legal"}),
		Elo:           domain.DefaultElo,
		ReleasedAt:    time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC),
	}}
}

// WithID sets the card id
func (b *CardBuilder) WithID(id string) *CardBuilder {
	b.card.ID = id
	return b
}

// WithName sets the card name
func (b *CardBuilder) WithName(name string) *CardBuilder {
	b.card.Name = name
	return b
}

// WithSet sets the set code
func (b *CardBuilder) WithSet(set string) *CardBuilder {
	b.card.SetCode = set
	return b
}

// WithRarity sets the rarity
func (b *CardBuilder) WithRarity(rarity domain.Rarity) *CardBuilder {
	b.card.Rarity = rarity
	return b
}

// WithColors sets the color identity
func (b *CardBuilder) WithColors(colors ...string) *CardBuilder {
	b.card.ColorIdentity = append(datatypes.JSONSlice[string]{}, colors...)
	return b
}

// WithTypeLine sets the type line
func (b *CardBuilder) WithTypeLine(typeLine string) *CardBuilder {
	b.card.TypeLine = typeLine
	return b
}

// WithReleasedAt sets the release date
func (b *CardBuilder) WithReleasedAt(released time.Time) *CardBuilder {
	b.card.ReleasedAt = released
	return b
}

// WithPromo marks the printing as a promo
func (b *CardBuilder) WithPromo() *CardBuilder {
	b.card.Promo = true
	return b
}

// Card returns the card without storing it
func (b *CardBuilder) Card() *domain.Card {
	card := b.card
	card.NameLower = domain.NormalizeName(card.Name)
	return &card
}

// Build creates the card in the database
func (b *CardBuilder) Build(t *testing.T, db *gorm.DB) *domain.Card {
	t.Helper()

	card := b.Card()
	if err := db.Create(card).Error; err != nil {
		t.Fatalf("failed to create card: %v", err)
	}
	return card
}

// SeedCards creates count distinct cards in the catalog
func SeedCards(t *testing.T, db *gorm.DB, count int) []*domain.Card {
	t.Helper()

	rarities := []domain.Rarity{domain.RarityCommon, domain.RarityCommon, domain.RarityUncommon, domain.RarityRare}
	cards := make([]*domain.Card, count)
	for i := 0; i < count; i++ {
		cards[i] = NewCardBuilder().
			WithID(fmt.Sprintf("card-%03d", i)).
			WithName(fmt.Sprintf("Seed Card %03d", i)).
			WithRarity(rarities[i%len(rarities)]).
			Build(t, db)
	}
	return cards
}

// CubeBuilder creates cubes with a builder pattern
type CubeBuilder struct {
	owner    *domain.User
	name     string
	cards    []*domain.Card
	template *domain.PackTemplate
}

// NewCubeBuilder creates a new CubeBuilder with default values
func NewCubeBuilder() *CubeBuilder {
	return &CubeBuilder{name: "Test Cube"}
}

// WithOwner sets the cube owner
func (b *CubeBuilder) WithOwner(user *domain.User) *CubeBuilder {
	b.owner = user
	return b
}

// WithName sets the cube name
func (b *CubeBuilder) WithName(name string) *CubeBuilder {
	b.name = name
	return b
}

// WithCards adds one entry per card, in order
func (b *CubeBuilder) WithCards(cards ...*domain.Card) *CubeBuilder {
	b.cards = append(b.cards, cards...)
	return b
}

// WithTemplate sets the pack template
func (b *CubeBuilder) WithTemplate(tmpl domain.PackTemplate) *CubeBuilder {
	b.template = &tmpl
	return b
}

// Build creates the cube in the database, creating an owner when none was set
func (b *CubeBuilder) Build(t *testing.T, db *gorm.DB) *domain.Cube {
	t.Helper()

	owner := b.owner
	if owner == nil {
		owner, _ = NewUserBuilder().Build(t, db)
	}

	entries := make(datatypes.JSONSlice[domain.CubeCard], len(b.cards))
	for i, card := range b.cards {
		entries[i] = domain.CubeCard{
			EntryID: uuid.New(),
			CardID:  card.ID,
			Status:  domain.CardStatusOwned,
			Finish:  domain.CardFinishNonFoil,
			Tags:    []string{},
			Index:   i,
			AddedAt: time.Now(),
		}
	}

	tmpl := domain.DefaultPackTemplate(5, 2)
	if b.template != nil {
		tmpl = *b.template
	}

	cube := &domain.Cube{
		ID:           uuid.New(),
		OwnerID:      owner.ID,
		Name:         b.name,
		Cards:        entries,
		Basics:       datatypes.JSONSlice[string]{},
		PackTemplate: datatypes.NewJSONType(tmpl),
		Version:      1,
	}
	if err := db.Create(cube).Error; err != nil {
		t.Fatalf("failed to create cube: %v", err)
	}
	return cube
}

// CompleteDraft submits every seat of a draft with a simple pick pattern:
// each seat picks the first card of each of its packs and trashes the rest.
func CompleteDraft(t *testing.T, ts *TestServer, d *domain.Draft) *domain.Draft {
	t.Helper()

	ctx := context.Background()
	var err error
	for seat := range d.Seats {
		var picks, trash []int
		for _, pack := range d.PacksForSeat(seat) {
			picks = append(picks, pack.CardIndices[0])
			trash = append(trash, pack.CardIndices[1:]...)
		}

		var viewer *domain.Viewer
		if uid := d.Seats[seat].UserID; uid != nil {
			viewer = &domain.Viewer{UserID: *uid, DisplayName: d.Seats[seat].Name}
		}

		d, err = ts.Services.Draft.SubmitSeat(ctx, viewer, d.ID, seat, service.SeatResult{
			Drafted:    picks,
			PickOrder:  picks,
			TrashOrder: trash,
		})
		if err != nil {
			t.Fatalf("failed to submit seat %d: %v", seat, err)
		}
	}
	return d
}

// CreateAuthenticatedRequest creates an HTTP request with auth token
func CreateAuthenticatedRequest(t *testing.T, method, url string, body interface{}, token string) *http.Request {
	t.Helper()

	var bodyReader *bytes.Buffer
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal body: %v", err)
		}
		bodyReader = bytes.NewBuffer(jsonBody)
	} else {
		bodyReader = bytes.NewBuffer(nil)
	}

	req, err := http.NewRequestWithContext(context.Background(), method, url, bodyReader)
	if err != nil {
		t.Fatalf("failed to create request: %v", err)
	}

	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	return req
}
