package hasher

//go:generate go tool go-enum --marshal --names

// Kind selects the digest used to derive tokens.
// ENUM(hmac-sha256, highway)
type Kind int
