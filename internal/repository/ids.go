package repository

import "github.com/google/uuid"

// UUIDGenerator issues random (version 4) UUIDs for primary keys.
type UUIDGenerator struct{}

func (UUIDGenerator) New() string { return uuid.NewString() }
