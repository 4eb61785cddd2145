package auth

// Claims identifica al usuario autenticado de la sesión actual.
type Claims struct {
	UserID string
	Email  string
	Role   string
}
