package model

// 用户角色
const (
	RoleDirector = "director"
	RoleMember   = "miembro"
)

// User 用户模型
type User struct {
	ID       int64  `db:"id" json:"id"`
	Username string `db:"username" json:"username"`
	Password string `db:"password" json:"-"`
	Role     string `db:"role" json:"role"`
}

// Identity 会话中保存的登录身份
type Identity struct {
	Username string `json:"username"`
	Role     string `json:"role"`
}

// HasRole 判断身份是否具有指定角色
func (i *Identity) HasRole(role string) bool {
	return i != nil && i.Role == role
}
