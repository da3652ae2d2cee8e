package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"tush00nka/dream_homes/internal/model"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	// Every connection to :memory: is a fresh database.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, Migrate(db))
	t.Cleanup(func() { sqlDB.Close() })

	return db
}

func createUser(t *testing.T, repo UserRepository, name, email string) *model.User {
	t.Helper()
	user := &model.User{Name: name, Email: email, Password: "hash"}
	require.NoError(t, repo.Create(context.Background(), user))
	return user
}

func newProperty(ownerID uint, name string, price uint64) *model.Property {
	return &model.Property{
		Name:             name,
		Type:             model.ListingRent,
		PropertyType:     model.PropertyApartment,
		BHK:              model.BHK2,
		Price:            price,
		Area:             900,
		PreferredTenants: model.TenantsAnyone,
		Street:           "MG Road",
		City:             "Pune",
		State:            "Maharashtra",
		Pincode:          "411001",
		OwnerID:          ownerID,
	}
}

func TestPropertyCreateAndFind(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	users := NewUserRepository(db)
	props := NewPropertyRepository(db)

	owner := createUser(t, users, "Owner", "owner@example.com")

	p := newProperty(owner.ID, "Sunny flat", 25000)
	p.Images = []model.Image{{URL: "https://img/1.jpg"}, {URL: "https://img/2.jpg"}}
	require.NoError(t, props.Create(ctx, p))
	require.NotZero(t, p.ID)

	got, err := props.FindWithOwner(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Sunny flat", got.Name)
	assert.Equal(t, model.BHK2, got.BHK)
	assert.Equal(t, uint64(25000), got.Price)
	assert.False(t, got.IsSold)
	require.NotNil(t, got.Owner)
	assert.Equal(t, "owner@example.com", got.Owner.Email)
	assert.ElementsMatch(t, []string{"https://img/1.jpg", "https://img/2.jpg"}, model.URLs(got.Images))

	_, err = props.FindByID(ctx, p.ID+100)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestPropertyListFiltersAndSort(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	users := NewUserRepository(db)
	props := NewPropertyRepository(db)

	owner := createUser(t, users, "Owner", "owner@example.com")

	cheap := newProperty(owner.ID, "cheap", 1000)
	mid := newProperty(owner.ID, "mid", 5000)
	mid.BHK = model.BHK3
	pricey := newProperty(owner.ID, "pricey", 9000)
	pricey.Type = model.ListingSale
	sold := newProperty(owner.ID, "sold", 3000)

	for _, p := range []*model.Property{cheap, mid, pricey, sold} {
		require.NoError(t, props.Create(ctx, p))
		time.Sleep(2 * time.Millisecond)
	}
	require.NoError(t, props.SetSold(ctx, sold.ID, true))

	names := func(ps []model.Property) []string {
		out := make([]string, 0, len(ps))
		for _, p := range ps {
			out = append(out, p.Name)
		}
		return out
	}

	all, err := props.List(ctx, model.PropertyFilter{}, model.SortLatest, 12)
	require.NoError(t, err)
	assert.Equal(t, []string{"pricey", "mid", "cheap"}, names(all))

	asc, err := props.List(ctx, model.PropertyFilter{}, model.SortPriceAsc, 12)
	require.NoError(t, err)
	assert.Equal(t, []string{"cheap", "mid", "pricey"}, names(asc))

	desc, err := props.List(ctx, model.PropertyFilter{}, model.SortPriceDesc, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"pricey", "mid"}, names(desc))

	rent, err := props.List(ctx, model.PropertyFilter{Type: model.ListingRent}, model.SortPriceAsc, 12)
	require.NoError(t, err)
	assert.Equal(t, []string{"cheap", "mid"}, names(rent))

	bhk, err := props.List(ctx, model.PropertyFilter{BHK: []model.BHK{model.BHK3, model.BHK4}}, model.SortLatest, 12)
	require.NoError(t, err)
	assert.Equal(t, []string{"mid"}, names(bhk))

	priced, err := props.List(ctx, model.PropertyFilter{Price: &model.Range{Min: 1000, Max: 5000}}, model.SortPriceAsc, 12)
	require.NoError(t, err)
	assert.Equal(t, []string{"cheap", "mid"}, names(priced))

	none, err := props.List(ctx, model.PropertyFilter{Area: &model.Range{Min: 1, Max: 10}}, model.SortLatest, 12)
	require.NoError(t, err)
	assert.Empty(t, none)

	_, err = props.List(ctx, model.PropertyFilter{}, model.SortOrder("random"), 12)
	assert.ErrorIs(t, err, model.ErrInvalidSortOrder)
}

func TestPropertyListByOwner(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	users := NewUserRepository(db)
	props := NewPropertyRepository(db)

	owner := createUser(t, users, "Owner", "owner@example.com")
	other := createUser(t, users, "Other", "other@example.com")

	a := newProperty(owner.ID, "a", 1)
	b := newProperty(owner.ID, "b", 2)
	c := newProperty(other.ID, "c", 3)
	for _, p := range []*model.Property{a, b, c} {
		require.NoError(t, props.Create(ctx, p))
	}
	require.NoError(t, props.SetSold(ctx, b.ID, true))

	all, err := props.ListByOwner(ctx, owner.ID, nil)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	yes := true
	soldOnly, err := props.ListByOwner(ctx, owner.ID, &yes)
	require.NoError(t, err)
	require.Len(t, soldOnly, 1)
	assert.Equal(t, "b", soldOnly[0].Name)

	no := false
	active, err := props.ListByOwner(ctx, owner.ID, &no)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "a", active[0].Name)
}

func TestPropertySearchIsCaseInsensitive(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	users := NewUserRepository(db)
	props := NewPropertyRepository(db)

	owner := createUser(t, users, "Owner", "owner@example.com")

	pune := newProperty(owner.ID, "pune", 1)
	mumbai := newProperty(owner.ID, "mumbai", 1)
	mumbai.City = "Mumbai"
	mumbai.Street = "Marine Drive"
	goa := newProperty(owner.ID, "goa", 1)
	goa.City = "Panaji"
	goa.State = "Goa"
	goa.Type = model.ListingSale
	for _, p := range []*model.Property{pune, mumbai, goa} {
		require.NoError(t, props.Create(ctx, p))
	}

	byCity, err := props.Search(ctx, model.ListingRent, "PUNE")
	require.NoError(t, err)
	require.Len(t, byCity, 1)
	assert.Equal(t, "pune", byCity[0].Name)

	byStreet, err := props.Search(ctx, model.ListingRent, "marine")
	require.NoError(t, err)
	require.Len(t, byStreet, 1)
	assert.Equal(t, "mumbai", byStreet[0].Name)

	byState, err := props.Search(ctx, model.ListingRent, "maha")
	require.NoError(t, err)
	assert.Len(t, byState, 2)

	wrongType, err := props.Search(ctx, model.ListingRent, "goa")
	require.NoError(t, err)
	assert.Empty(t, wrongType)

	sale, err := props.Search(ctx, model.ListingSale, "Goa")
	require.NoError(t, err)
	assert.Len(t, sale, 1)
}

func TestPropertySearchTreatsWildcardsLiterally(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	users := NewUserRepository(db)
	props := NewPropertyRepository(db)

	owner := createUser(t, users, "Owner", "owner@example.com")

	plain := newProperty(owner.ID, "plain", 1)
	lane := newProperty(owner.ID, "lane", 1)
	lane.Street = "Lane_5 100%"
	for _, p := range []*model.Property{plain, lane} {
		require.NoError(t, props.Create(ctx, p))
	}

	for _, q := range []string{"_", "%", `\`, "lane%5"} {
		got, err := props.Search(ctx, model.ListingRent, q)
		require.NoError(t, err)
		for _, p := range got {
			assert.Equal(t, "lane", p.Name, q)
		}
	}

	got, err := props.Search(ctx, model.ListingRent, "lane_5")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "lane", got[0].Name)

	got, err = props.Search(ctx, model.ListingRent, "100%")
	require.NoError(t, err)
	assert.Len(t, got, 1)

	got, err = props.Search(ctx, model.ListingRent, "lanex5")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestPropertySearchWildcardOnlyFindsNothing(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	users := NewUserRepository(db)
	props := NewPropertyRepository(db)

	owner := createUser(t, users, "Owner", "owner@example.com")
	require.NoError(t, props.Create(ctx, newProperty(owner.ID, "flat", 1)))

	for _, q := range []string{"_", "%", "__", `\`} {
		got, err := props.Search(ctx, model.ListingRent, q)
		require.NoError(t, err)
		assert.Empty(t, got, q)
	}
}

func TestPropertyUpdateReplacesImages(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	users := NewUserRepository(db)
	props := NewPropertyRepository(db)

	owner := createUser(t, users, "Owner", "owner@example.com")

	p := newProperty(owner.ID, "before", 100)
	p.Images = []model.Image{{URL: "https://img/old.jpg"}}
	require.NoError(t, props.Create(ctx, p))

	edit := newProperty(0, "after", 200)
	edit.City = "Nashik"
	require.NoError(t, props.Update(ctx, p.ID, edit, []string{"https://img/old.jpg", "https://img/new.jpg"}))

	got, err := props.FindByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "after", got.Name)
	assert.Equal(t, uint64(200), got.Price)
	assert.Equal(t, "Nashik", got.City)
	assert.Equal(t, owner.ID, got.OwnerID)
	assert.ElementsMatch(t, []string{"https://img/old.jpg", "https://img/new.jpg"}, model.URLs(got.Images))

	err = props.Update(ctx, p.ID+100, edit, nil)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestPropertySetSold(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	users := NewUserRepository(db)
	props := NewPropertyRepository(db)

	owner := createUser(t, users, "Owner", "owner@example.com")
	p := newProperty(owner.ID, "flat", 100)
	require.NoError(t, props.Create(ctx, p))

	require.NoError(t, props.SetSold(ctx, p.ID, true))
	got, err := props.FindByID(ctx, p.ID)
	require.NoError(t, err)
	assert.True(t, got.IsSold)

	require.NoError(t, props.SetSold(ctx, p.ID, false))
	got, err = props.FindByID(ctx, p.ID)
	require.NoError(t, err)
	assert.False(t, got.IsSold)

	assert.ErrorIs(t, props.SetSold(ctx, 999, true), gorm.ErrRecordNotFound)
}

func TestUserEmailIsNormalized(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	users := NewUserRepository(db)

	createUser(t, users, "Asha", " Asha@Example.com ")

	exists, err := users.EmailExists(ctx, "asha@example.com")
	require.NoError(t, err)
	assert.True(t, exists)

	got, err := users.FindByEmail(ctx, "ASHA@example.com")
	require.NoError(t, err)
	assert.Equal(t, "asha@example.com", got.Email)

	err = users.Create(ctx, &model.User{Name: "dup", Email: "asha@example.com"})
	assert.Error(t, err)
}

func TestUserSaveAndUnsaveProperty(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	users := NewUserRepository(db)
	props := NewPropertyRepository(db)

	owner := createUser(t, users, "Owner", "owner@example.com")
	fan := createUser(t, users, "Fan", "fan@example.com")
	p := newProperty(owner.ID, "flat", 100)
	require.NoError(t, props.Create(ctx, p))

	require.NoError(t, users.SaveProperty(ctx, fan.ID, p.ID))
	got, err := users.FindWithSaved(ctx, "fan@example.com")
	require.NoError(t, err)
	assert.True(t, got.HasSaved(p.ID))

	require.NoError(t, users.UnsaveProperty(ctx, fan.ID, p.ID))
	got, err = users.FindWithSaved(ctx, "fan@example.com")
	require.NoError(t, err)
	assert.False(t, got.HasSaved(p.ID))
}

func TestUserSaveMissingProperty(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	users := NewUserRepository(db)
	props := NewPropertyRepository(db)

	owner := createUser(t, users, "Owner", "owner@example.com")
	fan := createUser(t, users, "Fan", "fan@example.com")

	assert.ErrorIs(t, users.SaveProperty(ctx, fan.ID, 404), gorm.ErrRecordNotFound)
	assert.ErrorIs(t, users.SaveProperty(ctx, fan.ID, 404), gorm.ErrRecordNotFound)

	var links int64
	require.NoError(t, db.Table("saved_properties").Count(&links).Error)
	assert.Zero(t, links)

	p := newProperty(owner.ID, "flat", 100)
	require.NoError(t, props.Create(ctx, p))
	assert.ErrorIs(t, users.SaveProperty(ctx, 999, p.ID), gorm.ErrRecordNotFound)

	// saving twice keeps a single link
	require.NoError(t, users.SaveProperty(ctx, fan.ID, p.ID))
	require.NoError(t, users.SaveProperty(ctx, fan.ID, p.ID))
	require.NoError(t, db.Table("saved_properties").Count(&links).Error)
	assert.Equal(t, int64(1), links)

	// the property itself is untouched by the association write
	got, err := props.FindByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "flat", got.Name)
}

func TestUserFindWithRelations(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	users := NewUserRepository(db)
	props := NewPropertyRepository(db)
	messages := NewMessageRepository(db)

	owner := createUser(t, users, "Owner", "owner@example.com")
	buyer := createUser(t, users, "Buyer", "buyer@example.com")

	p := newProperty(owner.ID, "flat", 100)
	p.Images = []model.Image{{URL: "https://img/1.jpg"}}
	require.NoError(t, props.Create(ctx, p))
	require.NoError(t, users.SaveProperty(ctx, owner.ID, p.ID))

	first := &model.Message{Message: "Is it available?", SenderID: buyer.ID, ReceiverID: owner.ID, PropertyID: p.ID}
	require.NoError(t, messages.Create(ctx, first))
	time.Sleep(2 * time.Millisecond)
	second := &model.Message{Message: "Can I visit?", SenderID: buyer.ID, ReceiverID: owner.ID, PropertyID: p.ID}
	require.NoError(t, messages.Create(ctx, second))

	got, err := users.FindWithRelations(ctx, owner.ID)
	require.NoError(t, err)

	require.Len(t, got.SavedProperties, 1)
	assert.Len(t, got.SavedProperties[0].Images, 1)

	require.Len(t, got.ReceivedMessages, 2)
	assert.Equal(t, "Can I visit?", got.ReceivedMessages[0].Message)
	require.NotNil(t, got.ReceivedMessages[0].Sender)
	assert.Equal(t, "buyer@example.com", got.ReceivedMessages[0].Sender.Email)
	require.NotNil(t, got.ReceivedMessages[0].Receiver)
	require.NotNil(t, got.ReceivedMessages[0].Property)
	assert.Equal(t, "flat", got.ReceivedMessages[0].Property.Name)

	inbox, err := messages.ListForReceiver(ctx, owner.ID)
	require.NoError(t, err)
	assert.Len(t, inbox, 2)

	empty, err := messages.ListForReceiver(ctx, buyer.ID)
	require.NoError(t, err)
	assert.Empty(t, empty)
}
