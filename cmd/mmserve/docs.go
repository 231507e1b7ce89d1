package main

// General API documentation for swaggo. Run `swag init -g cmd/mmserve/docs.go`
// to generate docs, then build with -tags=swagger.
//
// @title           mmserve API
// @version         1.0
// @description     HTTP API for multi-model inference with on-demand loading.
//
// @contact.name   mmserve maintainers
// @contact.url    https://github.com/your-org/mmserve
//
// @license.name   MIT
// @license.url    https://opensource.org/licenses/MIT
//
// @BasePath  /
//
// @schemes http
