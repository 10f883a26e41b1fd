package domain

import "github.com/google/uuid"

type ActorID = uuid.UUID
type EntryID = uuid.UUID
