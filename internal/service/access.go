package service

import "errors"

// ErrForbidden 在资源存在但主体无权访问时返回，
// 与"不存在"错误严格区分，handler 层据此映射 403/404
var ErrForbidden = errors.New("not authorized to access this resource")

// Actor 表示一次请求中已解析出的主体身份
type Actor struct {
	ID        uint
	Superuser bool
}

// CanAccess 判断主体是否可以读写属于 ownerID 的资源：
// 本人或超级管理员放行
func (a Actor) CanAccess(ownerID uint) bool {
	return a.ID == ownerID || a.Superuser
}
