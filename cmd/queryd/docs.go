package main

// General API documentation for swaggo. Run `swag init -g cmd/queryd/docs.go` to regenerate docs.
//
// @title           queryd API
// @version         1.0
// @description     HTTP gateway that forwards text to a locally hosted language model.
//
// @contact.name   queryd maintainers
//
// @license.name   MIT
// @license.url    https://opensource.org/licenses/MIT
//
// @BasePath  /
//
// @schemes http
