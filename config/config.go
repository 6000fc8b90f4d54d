package config

import (
	"fmt"
	"os"

	"ProxyLeaseCheck/types"
	"ProxyLeaseCheck/utils"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
)

const (
	envFile        = ".env"
	loginEnvVar    = "LOGIN"
	passwordEnvVar = "PASSWORD"
)

func Warning(message string) {
	yellow := color.New(color.FgYellow).SprintFunc()
	fmt.Println(yellow(fmt.Sprintf("[WARN] %s", message)))
}

// LoadEnv loads variables from a .env file in the working directory.
// Variables already set in the process environment are not overridden.
func LoadEnv() {
	env := os.Getenv("APP_ENV")

	if !utils.CheckIfFileExists(envFile) {
		if env == "development" {
			Warning("No .env file found. Continuing without.")
		}
		return
	}
	if err := godotenv.Load(envFile); err != nil {
		Warning(fmt.Sprintf("Failed to load .env file: %v. Continuing without.", err))
	}
}

func GetEnvVariable(variableToCheck string) (string, bool) {
	envVar := os.Getenv(variableToCheck)

	if envVar != "" {
		return envVar, true
	}

	return envVar, false

}

// GetCredentials reads the login pair from the environment. Missing values
// stay empty; the site rejects them through the normal login failure path.
func GetCredentials() types.Credentials {
	login, exists := GetEnvVariable(loginEnvVar)
	if !exists {
		Warning(fmt.Sprintf("%s is not set", loginEnvVar))
	}
	password, exists := GetEnvVariable(passwordEnvVar)
	if !exists {
		Warning(fmt.Sprintf("%s is not set", passwordEnvVar))
	}
	return types.Credentials{Login: login, Password: password}
}
