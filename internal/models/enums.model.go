package models

import (
	"fmt"
	"strings"
)

type Role string

const (
	RoleChief  Role = "CHIEF"
	RoleMember Role = "MEMBER"
	RoleClient Role = "CLIENT"
	RoleAdmin  Role = "ADMIN"
)

var Roles = []Role{RoleChief, RoleMember, RoleClient, RoleAdmin}

func (r Role) IsValid() bool {
	switch r {
	case RoleChief, RoleMember, RoleClient, RoleAdmin:
		return true
	default:
		return false
	}
}

func ParseRole(value string) (Role, error) {
	role := Role(strings.ToUpper(strings.TrimSpace(value)))
	if !role.IsValid() {
		return "", fmt.Errorf("unknown role %q", value)
	}
	return role, nil
}

// Specialization is both the service category of a group and the cleaning
// type of a reservation.
type Specialization string

const (
	SpecializationSalon     Specialization = "SALON"
	SpecializationKitchen   Specialization = "KITCHEN"
	SpecializationGardening Specialization = "GARDENING"
	SpecializationBackyard  Specialization = "BACKYARD"
	SpecializationPoultry   Specialization = "POULTRY"
	SpecializationGlass     Specialization = "GLASS"
	SpecializationLaundry   Specialization = "LAUNDRY"
)

var Specializations = []Specialization{
	SpecializationSalon,
	SpecializationKitchen,
	SpecializationGardening,
	SpecializationBackyard,
	SpecializationPoultry,
	SpecializationGlass,
	SpecializationLaundry,
}

var specializationLabels = map[Specialization]string{
	SpecializationSalon:     "Salon Cleaning",
	SpecializationKitchen:   "Kitchen Cleaning",
	SpecializationGardening: "Gardening Cleaning",
	SpecializationBackyard:  "Backyard Cleaning",
	SpecializationPoultry:   "Poultry Cleaning",
	SpecializationGlass:     "Glass Cleaning",
	SpecializationLaundry:   "Laundry Cleaning",
}

func (s Specialization) IsValid() bool {
	_, ok := specializationLabels[s]
	return ok
}

func (s Specialization) Label() string {
	return specializationLabels[s]
}

// ParseSpecialization accepts either the code ("GLASS") or the display label
// ("Glass Cleaning"), case-insensitively.
func ParseSpecialization(value string) (Specialization, error) {
	trimmed := strings.TrimSpace(value)
	code := Specialization(strings.ToUpper(trimmed))
	if code.IsValid() {
		return code, nil
	}
	for spec, label := range specializationLabels {
		if strings.EqualFold(label, trimmed) {
			return spec, nil
		}
	}
	return "", fmt.Errorf("unknown specialization %q", value)
}

type Priority string

const (
	PriorityHigh   Priority = "HIGH"
	PriorityMedium Priority = "MEDIUM"
	PriorityLow    Priority = "LOW"
)

var Priorities = []Priority{PriorityHigh, PriorityMedium, PriorityLow}

func (p Priority) IsValid() bool {
	switch p {
	case PriorityHigh, PriorityMedium, PriorityLow:
		return true
	default:
		return false
	}
}

// Rank orders priorities for sorting, higher is more urgent.
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 1
	default:
		return 0
	}
}

func ParsePriority(value string) (Priority, error) {
	priority := Priority(strings.ToUpper(strings.TrimSpace(value)))
	if !priority.IsValid() {
		return "", fmt.Errorf("unknown priority %q", value)
	}
	return priority, nil
}

type TaskStatus string

const (
	TaskStatusPending    TaskStatus = "pending"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusCompleted  TaskStatus = "completed"
)

var TaskStatuses = []TaskStatus{TaskStatusPending, TaskStatusInProgress, TaskStatusCompleted}

func (s TaskStatus) IsValid() bool {
	switch s {
	case TaskStatusPending, TaskStatusInProgress, TaskStatusCompleted:
		return true
	default:
		return false
	}
}

func ParseTaskStatus(value string) (TaskStatus, error) {
	status := TaskStatus(strings.ToLower(strings.TrimSpace(value)))
	if !status.IsValid() {
		return "", fmt.Errorf("unknown task status %q", value)
	}
	return status, nil
}
