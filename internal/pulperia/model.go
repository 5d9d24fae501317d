package pulperia

// DefaultName is used when a store cannot be resolved for display.
const DefaultName = "Pulpería"

type Pulperia struct {
	PulperiaID  string `bson:"pulperia_id" json:"pulperia_id"`
	Name        string `bson:"name" json:"name"`
	OwnerUserID string `bson:"owner_user_id" json:"owner_user_id"`
}
