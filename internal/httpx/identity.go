package httpx

import "github.com/gin-gonic/gin"

const identityKey = "authIdentity"

// Identity is the verified caller identity published into the request
// context by the auth guard and consumed by downstream handlers.
type Identity struct {
	UserID   int64
	Username string
}

func setIdentity(c *gin.Context, id Identity) {
	c.Set(identityKey, id)
}

// IdentityFrom returns the identity attached by RequireAuth. The second
// return value is false when the request never passed the guard.
func IdentityFrom(c *gin.Context) (Identity, bool) {
	v, ok := c.Get(identityKey)
	if !ok {
		return Identity{}, false
	}
	id, ok := v.(Identity)
	return id, ok
}
