// Package dto defines data transfer objects for the users HTTP API.
package dto

// CreateUserReq represents the request body for POST /users.
// Field limits mirror the column sizes of the users table.
type CreateUserReq struct {
	Name     string `json:"name" binding:"required,max=80"`
	Email    string `json:"email" binding:"required,email,max=255"`
	Password string `json:"password" binding:"required,max=255"`
}

// UpdateUserReq represents the request body for PUT /users/:id.
// All fields are replaced, so all of them are required.
type UpdateUserReq struct {
	Name     string `json:"name" binding:"required,max=80"`
	Email    string `json:"email" binding:"required,email,max=255"`
	Password string `json:"password" binding:"required,max=255"`
}

// UserURI binds the :id path parameter.
type UserURI struct {
	ID uint `uri:"id" binding:"required,min=1"`
}
