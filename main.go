package main

import (
	"fmt"

	"formpool-service/config"
	"formpool-service/routes"
	"formpool-service/utils"
)

func main() {
	fmt.Println("Hello - formpool-service: 9000")
	utils.InitializeViper("config", "yml")
	config.InitializeConfig()
	config.ConnectDb()
	defer config.DB.Close()
	server := routes.InitRoutes()
	server.Listen("0.0.0.0:9000")
}
