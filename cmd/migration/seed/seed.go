package seed

import (
	"time"

	"cleanroster/config"
	. "cleanroster/internal/models"
	"cleanroster/internal/services"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const seedPassword = "password123"

type seedUser struct {
	username string
	role     Role
}

type seedGroup struct {
	name           string
	specialization Specialization
	rating         float64
	chief          string
	members        []string
}

var seedUsers = []seedUser{
	{"admin", RoleAdmin},
	{"glass.chief", RoleChief},
	{"kitchen.chief", RoleChief},
	{"salon.chief", RoleChief},
	{"mia", RoleMember},
	{"noah", RoleMember},
	{"liam", RoleMember},
	{"emma", RoleMember},
	{"alice", RoleClient},
	{"bob", RoleClient},
}

var seedGroups = []seedGroup{
	{"Crystal Crew", SpecializationGlass, 4.5, "glass.chief", []string{"mia", "noah"}},
	{"Shiny Windows", SpecializationGlass, 3.5, "", []string{"liam"}},
	{"Kitchen Pros", SpecializationKitchen, 4.0, "kitchen.chief", []string{"emma"}},
	{"Salon Squad", SpecializationSalon, 3.0, "salon.chief", nil},
}

func Seed(db *gorm.DB, config config.Config, log logger.Logger) error {
	log = log.Function("seed")
	log.Info("Seeding development data")

	hash, err := services.NewAuthService(config, nil).HashPassword(seedPassword)
	if err != nil {
		return log.Err("failed to hash seed password", err)
	}

	users := make(map[string]*User, len(seedUsers))
	for _, su := range seedUsers {
		user := &User{
			Username:     su.username,
			Email:        su.username + "@example.com",
			Role:         su.role,
			PasswordHash: hash,
		}
		var existing User
		if err := db.First(&existing, "username = ?", su.username).Error; err == nil {
			log.Debug("User already exists", "username", su.username)
			users[su.username] = &existing
			continue
		}
		if err := db.Create(user).Error; err != nil {
			return log.Err("failed to create user", err, "username", su.username)
		}
		users[su.username] = user
	}

	groups := make(map[string]*Group, len(seedGroups))
	for _, sg := range seedGroups {
		group := &Group{
			Name:           sg.name,
			Specialization: sg.specialization,
			Rating:         sg.rating,
		}
		if chief, ok := users[sg.chief]; ok {
			group.ChiefID = &chief.ID
		}
		for _, name := range sg.members {
			group.Members = append(group.Members, users[name])
		}
		if err := db.Create(group).Error; err != nil {
			return log.Err("failed to create group", err, "name", sg.name)
		}
		groups[sg.name] = group
	}

	today := time.Now().UTC().Truncate(24 * time.Hour)
	reservations := []*Reservation{
		newReservation(users["alice"], groups["Crystal Crew"], SpecializationGlass, today.AddDate(0, 0, 2), "120.00", PriorityHigh, TaskStatusPending),
		newReservation(users["alice"], groups["Kitchen Pros"], SpecializationKitchen, today.AddDate(0, 0, 5), "85.50", PriorityMedium, TaskStatusInProgress),
		newReservation(users["bob"], groups["Crystal Crew"], SpecializationGlass, today.AddDate(0, 0, -3), "60.00", PriorityLow, TaskStatusCompleted),
		newReservation(users["bob"], groups["Salon Squad"], SpecializationSalon, today.AddDate(0, 1, 0), "200.00", PriorityMedium, TaskStatusPending),
	}
	for _, reservation := range reservations {
		if err := db.Create(reservation).Error; err != nil {
			return log.Err("failed to create reservation", err, "cleaningType", reservation.CleaningType)
		}
	}

	log.Info(
		"Seed complete",
		"users", len(users),
		"groups", len(groups),
		"reservations", len(reservations),
	)
	return nil
}

func newReservation(
	client *User,
	group *Group,
	cleaningType Specialization,
	cleaningDate time.Time,
	price string,
	priority Priority,
	status TaskStatus,
) *Reservation {
	return &Reservation{
		CleaningType:    cleaningType,
		Address:         "Main Street",
		HouseNumber:     "12",
		CleaningDate:    datatypes.Date(cleaningDate),
		Price:           decimal.RequireFromString(price),
		Priority:        priority,
		Status:          status,
		ClientID:        client.ID,
		AssignedGroupID: &group.ID,
		ApprovedByAdmin: status != TaskStatusPending,
	}
}
