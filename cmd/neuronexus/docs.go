package main

// General API documentation for swaggo. Build with -tags=swagger to serve it.
//
// @title           neuronexus API
// @version         1.0
// @description     Essay evaluation and model lifecycle API.
//
// @BasePath  /
//
// @schemes http
