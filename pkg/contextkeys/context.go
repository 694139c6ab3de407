package contextkeys

// Custom key type avoids collisions with other context users.
type contextKey string

// DBContextKey is the key under which a *gorm.DB (pool or test transaction)
// is stored in the request context.
const DBContextKey = contextKey("db")
