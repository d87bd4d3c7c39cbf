package utils

import (
	"errors"
	"fmt"
	"log"
	mathRand "math/rand"
	"regexp"
	"strings"
	"time"
	"unsafe"

	"formpool-service/model"

	"github.com/go-playground/validator/v10"
	"github.com/go-redis/redis/v8"
	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mr-tron/base58"
	"github.com/spf13/viper"
)

var IsTestMode bool = false
var SessionExpirationTime time.Duration = 30 * time.Minute

const letterBytes = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"
const (
	letterIdxBits = 6                    // 6 bits to represent a letter index
	letterIdxMask = 1<<letterIdxBits - 1 // All 1-bits, as many as letterIdxBits
	letterIdxMax  = 63 / letterIdxBits   // # of letter indices fitting in 63 bits
)

func RandString(n int) string {
	var src = mathRand.NewSource(time.Now().UnixNano())
	b := make([]byte, n)
	// A src.Int63() generates 63 random bits, enough for letterIdxMax characters!
	for i, cache, remain := n-1, src.Int63(), letterIdxMax; i >= 0; {
		if remain == 0 {
			cache, remain = src.Int63(), letterIdxMax
		}
		if idx := int(cache & letterIdxMask); idx < len(letterBytes) {
			b[i] = letterBytes[idx]
			i--
		}
		cache >>= letterIdxBits
		remain--
	}

	return *(*string)(unsafe.Pointer(&b))
}

// preventing application from crashing abruptly. use defer PanicRecover() on top of the codes that may cause panic
func PanicRecover() {
	if r := recover(); r != nil {
		log.Println("Recovered from panic: ", r)
	}
}

func InitializeViper(configName string, configType string) {
	viper.SetConfigName(configName)
	if IsTestMode {
		fmt.Println("Running in Test mode...")
		viper.AddConfigPath("../") // Adjust the path for test environment
	} else {
		// Normal mode configuration
		viper.AddConfigPath("/app") // Adjust the path for production environment
	}
	viper.AutomaticEnv()
	viper.SetConfigType(configType)
	if viper.AllKeys() == nil {
		if err := viper.ReadInConfig(); err != nil {
			log.Fatal("Error reading config file, ", err)
		}
	} else {
		if err := viper.MergeInConfig(); err != nil {
			log.Fatalf("Error reading config file 2, %s", err)
		}
	}
}

// JsonErrorResponse sends the error envelope every failing operation uses:
// http status, machine-readable code and a human message. An optional Logger
// forwards the incident to the service log before responding.
func JsonErrorResponse(c *fiber.Ctx, status int, code string, message string, logger ...Logger) error {
	if len(logger) != 0 {
		LogMessage(logger[0].LogLevel, logger[0].Message, logger[0].ServiceName)
	}
	c.SendStatus(status)
	return c.JSON(fiber.Map{"status": status, "code": code, "message": message})
}

// SecurePath resolves the caller's access token into the wallet session it
// was issued for. Every identity-bearing endpoint calls this first.
func SecurePath(c *fiber.Ctx, redisClient *redis.Client) (*model.WalletSession, error) {
	token := strings.TrimSpace(strings.TrimPrefix(c.Get("Authorization"), "Bearer"))
	if token == "" {
		return nil, errors.New("provide a valid access token")
	}
	payload, err := redisClient.Get(c.Context(), token).Result()
	if err == redis.Nil {
		return nil, errors.New("invalid or expired access token")
	} else if err != nil {
		LogMessage(CRITICAL, "SecurePath: unable to fetch session data, error: "+err.Error(), "formpool-service")
		return nil, errors.New("session lookup failed")
	}
	session := new(model.WalletSession)
	if err := json.Unmarshal([]byte(payload), session); err != nil {
		LogMessage(CRITICAL, "SecurePath: unable to unmarshal session payload, error: "+err.Error(), "formpool-service")
		return nil, errors.New("session data is not valid")
	}
	session.AccessToken = token
	return session, nil
}

// Register with Validate.RegisterValidation("regex", ...)
func RegexValidation(fl validator.FieldLevel) bool {
	pattern, err := regexp.Compile(fl.Param())
	if err != nil {
		return false
	}
	return pattern.MatchString(fl.Field().String())
}

// Register with Validate.RegisterValidation("wallet", ...)
func WalletValidation(fl validator.FieldLevel) bool {
	return IsValidWallet(fl.Field().String())
}

// IsValidWallet accepts base58-encoded 32-byte public keys, the identity
// format of the backing ledger.
func IsValidWallet(address string) bool {
	raw, err := base58.Decode(address)
	return err == nil && len(raw) == 32
}

// IsErrDuplicate reports whether err is a unique-key violation, returning the
// violated constraint so the caller can name the colliding field.
func IsErrDuplicate(err error) (bool, string) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return true, pgErr.ConstraintName
	}
	return false, ""
}

// IsForeignKeyErr reports whether err is a foreign-key violation.
func IsForeignKeyErr(err error) (bool, string) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23503" {
		return true, pgErr.ConstraintName
	}
	return false, ""
}
