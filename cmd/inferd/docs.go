package main

// General API documentation for swaggo. Run `swag init` to regenerate docs.
//
// @title           inferd API
// @version         1.0
// @description     OpenAI-compatible HTTP API over a locally loaded llama.cpp model.
//
// @BasePath  /
//
// @schemes http
//
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization
//
// @securityDefinitions.apikey AdminKeyAuth
// @in header
// @name Authorization
