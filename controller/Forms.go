package controller

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"formpool-service/config"
	"formpool-service/ledger"
	"formpool-service/model"
	"formpool-service/utils"

	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/xuri/excelize/v2"
)

var Validate = validator.New()
var ctx = context.Background()

func init() {
	// Register the custom validation functions
	if err := Validate.RegisterValidation("regex", utils.RegexValidation); err != nil {
		utils.LogMessage("critical", "Init: Error registering regex validation", config.ServiceName)
		panic("Init: Error registering regex validation")
	}
	if err := Validate.RegisterValidation("wallet", utils.WalletValidation); err != nil {
		utils.LogMessage("critical", "Init: Error registering wallet validation", config.ServiceName)
		panic("Init: Error registering wallet validation")
	}
}

func Index(c *fiber.Ctx) error {
	c.Accepts("text/plain", "application/json")
	return c.JSON(fiber.Map{"status": 200,
		"message": "Welcome to the formpool prize-pool survey service",
	})
}

func ServiceStatusCheck(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": 200, "message": "This API service is running!"})
}

/*
Bind a wallet identity to an access token. The client is expected to have
done wallet-level signing on its side; this service only tracks which wallet
a token speaks for.
*/
func ConnectWallet(c *fiber.Ctx) error {
	type FormData struct {
		Wallet string `json:"wallet" validate:"required,wallet"`
	}
	formData := new(FormData)
	if err := c.BodyParser(formData); err != nil || formData.Wallet == "" {
		return utils.JsonErrorResponse(c, fiber.StatusBadRequest, model.ErrInvalidInput, "Please provide all required data")
	}
	if err := Validate.Struct(formData); err != nil {
		return utils.JsonErrorResponse(c, fiber.StatusNotAcceptable, model.ErrInvalidInput, "Provided wallet address is not valid")
	}
	session := model.WalletSession{Wallet: formData.Wallet, ConnectedAt: ledger.Now()}
	payloadData, err := json.Marshal(session)
	if err != nil {
		return utils.JsonErrorResponse(c, fiber.StatusInternalServerError, model.ErrInternal, "Wallet connection failed", utils.Logger{
			LogLevel:    utils.CRITICAL,
			Message:     fmt.Sprintf("ConnectWallet: unable to marshal session payload for wallet %s, error: %s", formData.Wallet, err.Error()),
			ServiceName: config.ServiceName,
		})
	}
	token := base64.RawStdEncoding.EncodeToString([]byte(fmt.Sprintf("token_%s_%v", formData.Wallet, ledger.Now().UnixMilli())))
	if err := config.Redis.Set(ctx, token, payloadData, utils.SessionExpirationTime).Err(); err != nil {
		return utils.JsonErrorResponse(c, fiber.StatusInternalServerError, model.ErrInternal, "Wallet connection failed", utils.Logger{
			LogLevel:    utils.CRITICAL,
			Message:     fmt.Sprintf("ConnectWallet: unable to save access token for wallet %s, error: %s", formData.Wallet, err.Error()),
			ServiceName: config.ServiceName,
		})
	}
	return c.JSON(fiber.Map{"status": 200, "message": "Wallet connected", "data": session, "accessToken": token})
}

func CreateForm(c *fiber.Ctx) error {
	session, err := utils.SecurePath(c, config.Redis)
	if err != nil {
		return utils.JsonErrorResponse(c, fiber.StatusUnauthorized, model.ErrUnauthorized, err.Error())
	}
	type FormData struct {
		FormId          string    `json:"form_id" validate:"required,min=1,max=50,regex=^[a-zA-Z0-9_-]+$"`
		PrizePool       int64     `json:"prize_pool" validate:"required,gt=0"`
		Deadline        time.Time `json:"deadline" validate:"required"`
		MaxParticipants int       `json:"max_participants" validate:"required,gt=0"`
	}
	formData := new(FormData)
	if err := c.BodyParser(formData); err != nil || formData.FormId == "" {
		return utils.JsonErrorResponse(c, fiber.StatusBadRequest, model.ErrInvalidInput, "Please provide all required data")
	}
	if err := Validate.Struct(formData); err != nil {
		return utils.JsonErrorResponse(c, fiber.StatusNotAcceptable, model.ErrInvalidInput, "Provided data are not valid")
	}
	// the deadline gates submissions, so a form that starts already expired is a mistake
	if !formData.Deadline.After(ledger.Now()) {
		return utils.JsonErrorResponse(c, fiber.StatusNotAcceptable, model.ErrInvalidInput, "Deadline must be strictly in the future")
	}
	_, err = config.DB.Exec(ctx,
		`insert into form (form_id, authority, prize_pool, deadline, max_participants) values ($1, $2, $3, $4, $5)`,
		formData.FormId, session.Wallet, formData.PrizePool, formData.Deadline, formData.MaxParticipants)
	if err != nil {
		if ok, _ := utils.IsErrDuplicate(err); ok {
			return utils.JsonErrorResponse(c, fiber.StatusConflict, model.ErrFormIdTaken, fmt.Sprintf("Form id %s is already in use", formData.FormId))
		}
		return utils.JsonErrorResponse(c, fiber.StatusInternalServerError, model.ErrInternal, "Unable to save data, system error. please try again later", utils.Logger{
			LogLevel:    utils.CRITICAL,
			Message:     fmt.Sprintf("CreateForm: Unable to save data, FormId:%s, err:%v", formData.FormId, err),
			ServiceName: config.ServiceName,
		})
	}
	return c.JSON(fiber.Map{"status": 200, "message": "Form created successfully", "data": fiber.Map{"form_id": formData.FormId}})
}

func DepositPrize(c *fiber.Ctx) error {
	session, err := utils.SecurePath(c, config.Redis)
	if err != nil {
		return utils.JsonErrorResponse(c, fiber.StatusUnauthorized, model.ErrUnauthorized, err.Error())
	}
	formId := c.Params("formId")
	type FormData struct {
		// zero means "deposit whatever is still outstanding"
		Amount int64 `json:"amount" validate:"omitempty,gt=0"`
	}
	formData := new(FormData)
	// body is optional for a remainder deposit
	_ = c.BodyParser(formData)
	if err := Validate.Struct(formData); err != nil {
		return utils.JsonErrorResponse(c, fiber.StatusNotAcceptable, model.ErrInvalidInput, "Provided data are not valid")
	}
	tx, err := config.DB.Begin(ctx)
	if err != nil {
		return utils.JsonErrorResponse(c, fiber.StatusInternalServerError, model.ErrInternal, "Unable to save data, system error. please try again later", utils.Logger{
			LogLevel:    utils.CRITICAL,
			Message:     fmt.Sprintf("DepositPrize: Unable to begin transaction, FormId:%s, err:%v", formId, err),
			ServiceName: config.ServiceName,
		})
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(context.Background()); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
				utils.LogMessage("critical", fmt.Sprintf("DepositPrize: Unable to rollback transaction, FormId:%s, err:%v", formId, rbErr), config.ServiceName)
			}
		}
	}()
	var authority string
	var prizePool, collectedAmount int64
	var isActive bool
	err = tx.QueryRow(ctx,
		`select authority, prize_pool, collected_amount, is_active from form where form_id = $1 for update`, formId).
		Scan(&authority, &prizePool, &collectedAmount, &isActive)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return utils.JsonErrorResponse(c, fiber.StatusNotFound, model.ErrFormNotFound, "Form id provided is not valid")
		}
		return utils.JsonErrorResponse(c, fiber.StatusInternalServerError, model.ErrInternal, "Deposit failed", utils.Logger{
			LogLevel:    utils.CRITICAL,
			Message:     fmt.Sprintf("DepositPrize: Unable to get form data, FormId:%s, err:%v", formId, err),
			ServiceName: config.ServiceName,
		})
	}
	if authority != session.Wallet {
		err = errors.New("authority mismatch")
		return utils.JsonErrorResponse(c, fiber.StatusForbidden, model.ErrUnauthorized, "Only the form authority can deposit the prize pool")
	}
	if !isActive {
		err = errors.New("form inactive")
		return utils.JsonErrorResponse(c, fiber.StatusConflict, model.ErrFormInactive, "Form is not active")
	}
	amount := formData.Amount
	if amount == 0 {
		amount = prizePool - collectedAmount
	}
	if amount <= 0 || collectedAmount+amount > prizePool {
		err = errors.New("pool filled")
		return utils.JsonErrorResponse(c, fiber.StatusConflict, model.ErrPrizePoolFilled, "Prize pool is already filled")
	}
	if _, err = tx.Exec(ctx,
		`update form set collected_amount = collected_amount + $1 where form_id = $2`, amount, formId); err != nil {
		return utils.JsonErrorResponse(c, fiber.StatusInternalServerError, model.ErrInternal, "Deposit failed", utils.Logger{
			LogLevel:    utils.CRITICAL,
			Message:     fmt.Sprintf("DepositPrize: Unable to update collected amount, FormId:%s, err:%v", formId, err),
			ServiceName: config.ServiceName,
		})
	}
	if _, err = tx.Exec(ctx,
		`insert into payout (id, form_id, wallet, amount, kind) values ($1, $2, $3, $4, 'deposit')`,
		uuid.NewString(), formId, session.Wallet, amount); err != nil {
		return utils.JsonErrorResponse(c, fiber.StatusInternalServerError, model.ErrInternal, "Deposit failed", utils.Logger{
			LogLevel:    utils.CRITICAL,
			Message:     fmt.Sprintf("DepositPrize: Unable to record deposit, FormId:%s, err:%v", formId, err),
			ServiceName: config.ServiceName,
		})
	}
	if err = tx.Commit(context.Background()); err != nil {
		return utils.JsonErrorResponse(c, fiber.StatusInternalServerError, model.ErrInternal, "Deposit failed", utils.Logger{
			LogLevel:    utils.CRITICAL,
			Message:     fmt.Sprintf("DepositPrize: Unable to commit transaction, FormId:%s, err:%v", formId, err),
			ServiceName: config.ServiceName,
		})
	}
	return c.JSON(fiber.Map{"status": 200, "message": "Prize deposited successfully",
		"data": fiber.Map{"form_id": formId, "amount": amount, "collected_amount": collectedAmount + amount}})
}

func SubmitForm(c *fiber.Ctx) error {
	session, err := utils.SecurePath(c, config.Redis)
	if err != nil {
		return utils.JsonErrorResponse(c, fiber.StatusUnauthorized, model.ErrUnauthorized, err.Error())
	}
	formId := c.Params("formId")
	type FormData struct {
		// sha256 of the participant email, hashed client side. raw email never reaches this service
		EmailHash string `json:"email_hash" validate:"required,len=64,hexadecimal"`
	}
	formData := new(FormData)
	if err := c.BodyParser(formData); err != nil || formData.EmailHash == "" {
		return utils.JsonErrorResponse(c, fiber.StatusBadRequest, model.ErrInvalidInput, "Please provide all required data")
	}
	if err := Validate.Struct(formData); err != nil {
		return utils.JsonErrorResponse(c, fiber.StatusNotAcceptable, model.ErrInvalidInput, "Provided data are not valid")
	}
	tx, err := config.DB.Begin(ctx)
	if err != nil {
		return utils.JsonErrorResponse(c, fiber.StatusInternalServerError, model.ErrInternal, "Unable to save data, system error. please try again later", utils.Logger{
			LogLevel:    utils.CRITICAL,
			Message:     fmt.Sprintf("SubmitForm: Unable to begin transaction, FormId:%s, err:%v", formId, err),
			ServiceName: config.ServiceName,
		})
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(context.Background()); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
				utils.LogMessage("critical", fmt.Sprintf("SubmitForm: Unable to rollback transaction, FormId:%s, err:%v", formId, rbErr), config.ServiceName)
			}
		}
	}()
	// the row lock makes the count check and the index assignment one atomic step
	var deadline time.Time
	var maxParticipants, participantCount int
	var isActive, isDistributed bool
	err = tx.QueryRow(ctx,
		`select deadline, max_participants, participant_count, is_active, is_distributed from form where form_id = $1 for update`, formId).
		Scan(&deadline, &maxParticipants, &participantCount, &isActive, &isDistributed)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return utils.JsonErrorResponse(c, fiber.StatusNotFound, model.ErrFormNotFound, "Form id provided is not valid")
		}
		return utils.JsonErrorResponse(c, fiber.StatusInternalServerError, model.ErrInternal, "Submission failed", utils.Logger{
			LogLevel:    utils.CRITICAL,
			Message:     fmt.Sprintf("SubmitForm: Unable to get form data, FormId:%s, err:%v", formId, err),
			ServiceName: config.ServiceName,
		})
	}
	if !isActive {
		err = errors.New("form inactive")
		return utils.JsonErrorResponse(c, fiber.StatusConflict, model.ErrFormInactive, "Form is not active")
	}
	if isDistributed {
		err = errors.New("already distributed")
		return utils.JsonErrorResponse(c, fiber.StatusConflict, model.ErrAlreadyDistributed, "Prizes were already distributed for this form")
	}
	now := ledger.Now()
	if !now.Before(deadline) {
		err = errors.New("deadline passed")
		return utils.JsonErrorResponse(c, fiber.StatusConflict, model.ErrDeadlinePassed, "Submission deadline has passed")
	}
	if participantCount >= maxParticipants {
		err = errors.New("participant cap reached")
		return utils.JsonErrorResponse(c, fiber.StatusConflict, model.ErrMaxParticipantsReached, "Maximum participants reached")
	}
	// the (form_id, wallet) primary key is the sole duplicate-submission guard
	_, err = tx.Exec(ctx,
		`insert into participant (form_id, wallet, email_hash, participant_index, created_at) values ($1, $2, $3, $4, $5)`,
		formId, session.Wallet, formData.EmailHash, participantCount, now)
	if err != nil {
		if ok, _ := utils.IsErrDuplicate(err); ok {
			return utils.JsonErrorResponse(c, fiber.StatusConflict, model.ErrAlreadySubmitted, "This wallet has already submitted to this form")
		}
		return utils.JsonErrorResponse(c, fiber.StatusInternalServerError, model.ErrInternal, "Submission failed", utils.Logger{
			LogLevel:    utils.CRITICAL,
			Message:     fmt.Sprintf("SubmitForm: Unable to save participant, FormId:%s, Wallet:%s, err:%v", formId, session.Wallet, err),
			ServiceName: config.ServiceName,
		})
	}
	if _, err = tx.Exec(ctx,
		`update form set participant_count = participant_count + 1 where form_id = $1`, formId); err != nil {
		return utils.JsonErrorResponse(c, fiber.StatusInternalServerError, model.ErrInternal, "Submission failed", utils.Logger{
			LogLevel:    utils.CRITICAL,
			Message:     fmt.Sprintf("SubmitForm: Unable to increment participant count, FormId:%s, err:%v", formId, err),
			ServiceName: config.ServiceName,
		})
	}
	if err = tx.Commit(context.Background()); err != nil {
		return utils.JsonErrorResponse(c, fiber.StatusInternalServerError, model.ErrInternal, "Submission failed", utils.Logger{
			LogLevel:    utils.CRITICAL,
			Message:     fmt.Sprintf("SubmitForm: Unable to commit transaction, FormId:%s, err:%v", formId, err),
			ServiceName: config.ServiceName,
		})
	}
	return c.JSON(fiber.Map{"status": 200, "message": "Submission accepted",
		"data": fiber.Map{"form_id": formId, "wallet": session.Wallet, "participant_index": participantCount}})
}

func CloseForm(c *fiber.Ctx) error {
	session, err := utils.SecurePath(c, config.Redis)
	if err != nil {
		return utils.JsonErrorResponse(c, fiber.StatusUnauthorized, model.ErrUnauthorized, err.Error())
	}
	formId := c.Params("formId")
	tx, err := config.DB.Begin(ctx)
	if err != nil {
		return utils.JsonErrorResponse(c, fiber.StatusInternalServerError, model.ErrInternal, "Unable to close form, system error. please try again later", utils.Logger{
			LogLevel:    utils.CRITICAL,
			Message:     fmt.Sprintf("CloseForm: Unable to begin transaction, FormId:%s, err:%v", formId, err),
			ServiceName: config.ServiceName,
		})
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(context.Background()); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
				utils.LogMessage("critical", fmt.Sprintf("CloseForm: Unable to rollback transaction, FormId:%s, err:%v", formId, rbErr), config.ServiceName)
			}
		}
	}()
	var authority string
	var collectedAmount int64
	var isActive bool
	err = tx.QueryRow(ctx,
		`select authority, collected_amount, is_active from form where form_id = $1 for update`, formId).
		Scan(&authority, &collectedAmount, &isActive)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return utils.JsonErrorResponse(c, fiber.StatusNotFound, model.ErrFormNotFound, "Form id provided is not valid")
		}
		return utils.JsonErrorResponse(c, fiber.StatusInternalServerError, model.ErrInternal, "Close form failed", utils.Logger{
			LogLevel:    utils.CRITICAL,
			Message:     fmt.Sprintf("CloseForm: Unable to get form data, FormId:%s, err:%v", formId, err),
			ServiceName: config.ServiceName,
		})
	}
	if authority != session.Wallet {
		err = errors.New("authority mismatch")
		return utils.JsonErrorResponse(c, fiber.StatusForbidden, model.ErrUnauthorized, "Only the form authority can close the form")
	}
	if !isActive {
		err = errors.New("form inactive")
		return utils.JsonErrorResponse(c, fiber.StatusConflict, model.ErrFormInactive, "Form is already closed")
	}
	// closing must never strand committed funds: every marked winner claims first
	var unclaimedWinners int
	err = tx.QueryRow(ctx,
		`select count(*) from participant where form_id = $1 and is_winner = true and claimed = false`, formId).
		Scan(&unclaimedWinners)
	if err != nil {
		return utils.JsonErrorResponse(c, fiber.StatusInternalServerError, model.ErrInternal, "Close form failed", utils.Logger{
			LogLevel:    utils.CRITICAL,
			Message:     fmt.Sprintf("CloseForm: Unable to count unclaimed winners, FormId:%s, err:%v", formId, err),
			ServiceName: config.ServiceName,
		})
	}
	if unclaimedWinners > 0 {
		err = errors.New("unclaimed winners")
		return utils.JsonErrorResponse(c, fiber.StatusConflict, model.ErrCannotClose, fmt.Sprintf("Cannot close form, %d winners have not claimed their prize yet", unclaimedWinners))
	}
	// remaining custody = deposits - claims; includes the floor-division remainder
	var claimedTotal int64
	err = tx.QueryRow(ctx,
		`select coalesce(sum(amount), 0) from payout where form_id = $1 and kind = 'claim'`, formId).
		Scan(&claimedTotal)
	if err != nil {
		return utils.JsonErrorResponse(c, fiber.StatusInternalServerError, model.ErrInternal, "Close form failed", utils.Logger{
			LogLevel:    utils.CRITICAL,
			Message:     fmt.Sprintf("CloseForm: Unable to sum claims, FormId:%s, err:%v", formId, err),
			ServiceName: config.ServiceName,
		})
	}
	leftover := collectedAmount - claimedTotal
	if _, err = tx.Exec(ctx,
		`update form set is_active = false, closed_at = $1 where form_id = $2`, ledger.Now(), formId); err != nil {
		return utils.JsonErrorResponse(c, fiber.StatusInternalServerError, model.ErrInternal, "Close form failed", utils.Logger{
			LogLevel:    utils.CRITICAL,
			Message:     fmt.Sprintf("CloseForm: Unable to mark form closed, FormId:%s, err:%v", formId, err),
			ServiceName: config.ServiceName,
		})
	}
	if leftover > 0 {
		if _, err = tx.Exec(ctx,
			`insert into payout (id, form_id, wallet, amount, kind) values ($1, $2, $3, $4, 'refund')`,
			uuid.NewString(), formId, authority, leftover); err != nil {
			return utils.JsonErrorResponse(c, fiber.StatusInternalServerError, model.ErrInternal, "Close form failed", utils.Logger{
				LogLevel:    utils.CRITICAL,
				Message:     fmt.Sprintf("CloseForm: Unable to record refund, FormId:%s, err:%v", formId, err),
				ServiceName: config.ServiceName,
			})
		}
	}
	if err = tx.Commit(context.Background()); err != nil {
		return utils.JsonErrorResponse(c, fiber.StatusInternalServerError, model.ErrInternal, "Close form failed", utils.Logger{
			LogLevel:    utils.CRITICAL,
			Message:     fmt.Sprintf("CloseForm: Unable to commit transaction, FormId:%s, err:%v", formId, err),
			ServiceName: config.ServiceName,
		})
	}
	return c.JSON(fiber.Map{"status": 200, "message": "Form closed successfully",
		"data": fiber.Map{"form_id": formId, "refunded_amount": leftover}})
}

const formColumns = `form_id, authority, prize_pool, collected_amount, deadline, max_participants,
	participant_count, is_active, is_distributed, random_seed, distributed_at, closed_at, created_at`

func scanForm(row pgx.Row) (*model.Form, error) {
	form := new(model.Form)
	var seed *int64
	err := row.Scan(&form.FormId, &form.Authority, &form.PrizePool, &form.CollectedAmount, &form.Deadline,
		&form.MaxParticipants, &form.ParticipantCount, &form.IsActive, &form.IsDistributed, &seed,
		&form.DistributedAt, &form.ClosedAt, &form.CreatedAt)
	if err != nil {
		return nil, err
	}
	if seed != nil {
		// stored as the signed 64-bit pattern of the unsigned seed
		s := uint64(*seed)
		form.RandomSeed = &s
	}
	return form, nil
}

func queryForms(c *fiber.Ctx, label string, query string, args ...any) error {
	forms := []*model.Form{}
	rows, err := config.DB.Query(ctx, query, args...)
	if err != nil {
		return utils.JsonErrorResponse(c, fiber.StatusInternalServerError, model.ErrInternal, "Get forms data failed", utils.Logger{
			LogLevel:    utils.CRITICAL,
			Message:     fmt.Sprintf("%s: Unable to get forms data, error: %v", label, err),
			ServiceName: config.ServiceName,
		})
	}
	defer rows.Close()
	for rows.Next() {
		form, err := scanForm(rows)
		if err != nil {
			return utils.JsonErrorResponse(c, fiber.StatusInternalServerError, model.ErrInternal, "Get forms data failed", utils.Logger{
				LogLevel:    utils.CRITICAL,
				Message:     fmt.Sprintf("%s: Unable to scan form data, error: %v", label, err),
				ServiceName: config.ServiceName,
			})
		}
		forms = append(forms, form)
	}
	return c.JSON(fiber.Map{"status": fiber.StatusOK, "message": "success", "data": forms})
}

func GetForms(c *fiber.Ctx) error {
	return queryForms(c, "GetForms", `select `+formColumns+` from form order by created_at desc`)
}

func GetMyForms(c *fiber.Ctx) error {
	session, err := utils.SecurePath(c, config.Redis)
	if err != nil {
		return utils.JsonErrorResponse(c, fiber.StatusUnauthorized, model.ErrUnauthorized, err.Error())
	}
	return queryForms(c, "GetMyForms", `select `+formColumns+` from form where authority = $1 order by created_at desc`, session.Wallet)
}

func GetFormData(c *fiber.Ctx) error {
	formId := c.Params("formId")
	form, err := scanForm(config.DB.QueryRow(ctx, `select `+formColumns+` from form where form_id = $1`, formId))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return utils.JsonErrorResponse(c, fiber.StatusNotFound, model.ErrFormNotFound, "Form id provided is not valid")
		}
		return utils.JsonErrorResponse(c, fiber.StatusInternalServerError, model.ErrInternal, "Get form data failed", utils.Logger{
			LogLevel:    utils.CRITICAL,
			Message:     fmt.Sprintf("GetFormData: Unable to get form data, FormId:%s, err:%v", formId, err),
			ServiceName: config.ServiceName,
		})
	}
	return c.JSON(fiber.Map{"status": fiber.StatusOK, "message": "success", "data": form})
}

const participantColumns = `form_id, wallet, email_hash, participant_index, is_winner, claimed, claimed_at, created_at`

func fetchParticipants(query string, args ...any) ([]*model.Participant, error) {
	participants := []*model.Participant{}
	rows, err := config.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		participant := new(model.Participant)
		err = rows.Scan(&participant.FormId, &participant.Wallet, &participant.EmailHash, &participant.ParticipantIndex,
			&participant.IsWinner, &participant.Claimed, &participant.ClaimedAt, &participant.CreatedAt)
		if err != nil {
			return nil, err
		}
		participants = append(participants, participant)
	}
	return participants, nil
}

func GetParticipants(c *fiber.Ctx) error {
	formId := c.Params("formId")
	participants, err := fetchParticipants(
		`select `+participantColumns+` from participant where form_id = $1 order by participant_index`, formId)
	if err != nil {
		return utils.JsonErrorResponse(c, fiber.StatusInternalServerError, model.ErrInternal, "Get participants data failed", utils.Logger{
			LogLevel:    utils.CRITICAL,
			Message:     fmt.Sprintf("GetParticipants: Unable to get participants data, FormId:%s, error: %v", formId, err),
			ServiceName: config.ServiceName,
		})
	}
	return c.JSON(fiber.Map{"status": fiber.StatusOK, "message": "success", "data": participants})
}

func GetMySubmissions(c *fiber.Ctx) error {
	session, err := utils.SecurePath(c, config.Redis)
	if err != nil {
		return utils.JsonErrorResponse(c, fiber.StatusUnauthorized, model.ErrUnauthorized, err.Error())
	}
	participants, err := fetchParticipants(
		`select `+participantColumns+` from participant where wallet = $1 order by created_at desc`, session.Wallet)
	if err != nil {
		return utils.JsonErrorResponse(c, fiber.StatusInternalServerError, model.ErrInternal, "Get submissions data failed", utils.Logger{
			LogLevel:    utils.CRITICAL,
			Message:     fmt.Sprintf("GetMySubmissions: Unable to get submissions data, Wallet:%s, error: %v", session.Wallet, err),
			ServiceName: config.ServiceName,
		})
	}
	return c.JSON(fiber.Map{"status": fiber.StatusOK, "message": "success", "data": participants})
}

/*
Dashboard export of a form's submission list as an xlsx workbook.
*/
func ExportParticipants(c *fiber.Ctx) error {
	_, err := utils.SecurePath(c, config.Redis)
	if err != nil {
		return utils.JsonErrorResponse(c, fiber.StatusUnauthorized, model.ErrUnauthorized, err.Error())
	}
	formId := c.Params("formId")
	participants, err := fetchParticipants(
		`select `+participantColumns+` from participant where form_id = $1 order by participant_index`, formId)
	if err != nil {
		return utils.JsonErrorResponse(c, fiber.StatusInternalServerError, model.ErrInternal, "Export failed", utils.Logger{
			LogLevel:    utils.CRITICAL,
			Message:     fmt.Sprintf("ExportParticipants: Unable to get participants data, FormId:%s, error: %v", formId, err),
			ServiceName: config.ServiceName,
		})
	}
	file := excelize.NewFile()
	sheet := file.GetSheetName(0)
	headers := []string{"Form", "Wallet", "Email hash", "Index", "Winner", "Claimed", "Submitted at"}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		file.SetCellValue(sheet, cell, header)
	}
	for i, participant := range participants {
		values := []any{participant.FormId, participant.Wallet, participant.EmailHash, participant.ParticipantIndex,
			participant.IsWinner, participant.Claimed, participant.CreatedAt.Format(time.DateTime)}
		for j, value := range values {
			cell, _ := excelize.CoordinatesToCellName(j+1, i+2)
			file.SetCellValue(sheet, cell, value)
		}
	}
	buffer, err := file.WriteToBuffer()
	if err != nil {
		return utils.JsonErrorResponse(c, fiber.StatusInternalServerError, model.ErrInternal, "Export failed", utils.Logger{
			LogLevel:    utils.CRITICAL,
			Message:     fmt.Sprintf("ExportParticipants: Unable to build workbook, FormId:%s, err:%v", formId, err),
			ServiceName: config.ServiceName,
		})
	}
	c.Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s-participants.xlsx"`, formId))
	return c.Send(buffer.Bytes())
}
