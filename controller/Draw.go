package controller

import (
	"context"
	"errors"
	"fmt"
	"time"

	"formpool-service/config"
	"formpool-service/draw"
	"formpool-service/ledger"
	"formpool-service/model"
	"formpool-service/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

/*
Freeze the form's random seed and mark the winners. One-shot: the row lock on
the form serializes racing calls, and whoever loses the race observes
is_distributed already set. The seed is derived only here, after the
deadline, from the ledger slot, the distribution timestamp and the form id,
so nobody can precompute the winner set.
*/
func DistributePrizes(c *fiber.Ctx) error {
	session, err := utils.SecurePath(c, config.Redis)
	if err != nil {
		return utils.JsonErrorResponse(c, fiber.StatusUnauthorized, model.ErrUnauthorized, err.Error())
	}
	formId := c.Params("formId")
	tx, err := config.DB.Begin(ctx)
	if err != nil {
		return utils.JsonErrorResponse(c, fiber.StatusInternalServerError, model.ErrInternal, "Distribution failed, system error. please try again later", utils.Logger{
			LogLevel:    utils.CRITICAL,
			Message:     fmt.Sprintf("DistributePrizes: Unable to begin transaction, FormId:%s, err:%v", formId, err),
			ServiceName: config.ServiceName,
		})
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(context.Background()); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
				utils.LogMessage("critical", fmt.Sprintf("DistributePrizes: Unable to rollback transaction, FormId:%s, err:%v", formId, rbErr), config.ServiceName)
			}
		}
	}()
	var authority string
	var prizePool int64
	var deadline time.Time
	var participantCount int
	var isActive, isDistributed bool
	err = tx.QueryRow(ctx,
		`select authority, prize_pool, deadline, participant_count, is_active, is_distributed from form where form_id = $1 for update`, formId).
		Scan(&authority, &prizePool, &deadline, &participantCount, &isActive, &isDistributed)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return utils.JsonErrorResponse(c, fiber.StatusNotFound, model.ErrFormNotFound, "Form id provided is not valid")
		}
		return utils.JsonErrorResponse(c, fiber.StatusInternalServerError, model.ErrInternal, "Distribution failed", utils.Logger{
			LogLevel:    utils.CRITICAL,
			Message:     fmt.Sprintf("DistributePrizes: Unable to get form data, FormId:%s, err:%v", formId, err),
			ServiceName: config.ServiceName,
		})
	}
	if authority != session.Wallet {
		err = errors.New("authority mismatch")
		return utils.JsonErrorResponse(c, fiber.StatusForbidden, model.ErrUnauthorized, "Only the form authority can trigger the distribution")
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
	if now.Before(deadline) {
		err = errors.New("deadline not reached")
		return utils.JsonErrorResponse(c, fiber.StatusConflict, model.ErrDeadlineNotReached, "Submission deadline has not been reached yet")
	}
	if participantCount == 0 {
		err = errors.New("no participants")
		return utils.JsonErrorResponse(c, fiber.StatusConflict, model.ErrNoParticipants, "No participants to distribute to")
	}
	slot, err := ledger.CurrentSlot(ctx, tx)
	if err != nil {
		return utils.JsonErrorResponse(c, fiber.StatusInternalServerError, model.ErrInternal, "Distribution failed", utils.Logger{
			LogLevel:    utils.CRITICAL,
			Message:     fmt.Sprintf("DistributePrizes: Unable to read ledger slot, FormId:%s, err:%v", formId, err),
			ServiceName: config.ServiceName,
		})
	}
	seed := draw.DeriveSeed(slot, now.Unix(), formId, uint32(participantCount))
	winners := draw.Winners(seed, participantCount)
	winnerIndexes := make([]int32, len(winners))
	for i, index := range winners {
		winnerIndexes[i] = int32(index)
	}
	if _, err = tx.Exec(ctx,
		`update form set random_seed = $1, is_distributed = true, distributed_at = $2 where form_id = $3`,
		int64(seed), now, formId); err != nil {
		return utils.JsonErrorResponse(c, fiber.StatusInternalServerError, model.ErrInternal, "Distribution failed", utils.Logger{
			LogLevel:    utils.CRITICAL,
			Message:     fmt.Sprintf("DistributePrizes: Unable to persist random seed, FormId:%s, err:%v", formId, err),
			ServiceName: config.ServiceName,
		})
	}
	if _, err = tx.Exec(ctx,
		`update participant set is_winner = true where form_id = $1 and participant_index = any($2)`,
		formId, winnerIndexes); err != nil {
		return utils.JsonErrorResponse(c, fiber.StatusInternalServerError, model.ErrInternal, "Distribution failed", utils.Logger{
			LogLevel:    utils.CRITICAL,
			Message:     fmt.Sprintf("DistributePrizes: Unable to mark winners, FormId:%s, err:%v", formId, err),
			ServiceName: config.ServiceName,
		})
	}
	if err = tx.Commit(context.Background()); err != nil {
		return utils.JsonErrorResponse(c, fiber.StatusInternalServerError, model.ErrInternal, "Distribution failed", utils.Logger{
			LogLevel:    utils.CRITICAL,
			Message:     fmt.Sprintf("DistributePrizes: Unable to commit transaction, FormId:%s, err:%v", formId, err),
			ServiceName: config.ServiceName,
		})
	}
	utils.LogMessage("info", fmt.Sprintf("DistributePrizes: FormId:%s, seed:%d, winners:%d", formId, seed, len(winners)), config.ServiceName)
	return c.JSON(fiber.Map{"status": 200, "message": "Prizes distributed successfully", "data": fiber.Map{
		"form_id":          formId,
		"random_seed":      fmt.Sprintf("%d", seed),
		"winners_count":    len(winners),
		"winner_indexes":   winners,
		"per_winner_share": draw.Share(prizePool, len(winners)),
	}})
}

/*
Pay the calling wallet its share, exactly once. The participant row lock
serializes racing claims for the same wallet; the claimed flag makes every
call after the first fail with ALREADY_CLAIMED.
*/
func CheckAndClaimPrize(c *fiber.Ctx) error {
	session, err := utils.SecurePath(c, config.Redis)
	if err != nil {
		return utils.JsonErrorResponse(c, fiber.StatusUnauthorized, model.ErrUnauthorized, err.Error())
	}
	formId := c.Params("formId")
	tx, err := config.DB.Begin(ctx)
	if err != nil {
		return utils.JsonErrorResponse(c, fiber.StatusInternalServerError, model.ErrInternal, "Claim failed, system error. please try again later", utils.Logger{
			LogLevel:    utils.CRITICAL,
			Message:     fmt.Sprintf("CheckAndClaimPrize: Unable to begin transaction, FormId:%s, err:%v", formId, err),
			ServiceName: config.ServiceName,
		})
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(context.Background()); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
				utils.LogMessage("critical", fmt.Sprintf("CheckAndClaimPrize: Unable to rollback transaction, FormId:%s, err:%v", formId, rbErr), config.ServiceName)
			}
		}
	}()
	var prizePool int64
	var participantCount int
	var isDistributed bool
	err = tx.QueryRow(ctx,
		`select prize_pool, participant_count, is_distributed from form where form_id = $1`, formId).
		Scan(&prizePool, &participantCount, &isDistributed)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return utils.JsonErrorResponse(c, fiber.StatusNotFound, model.ErrFormNotFound, "Form id provided is not valid")
		}
		return utils.JsonErrorResponse(c, fiber.StatusInternalServerError, model.ErrInternal, "Claim failed", utils.Logger{
			LogLevel:    utils.CRITICAL,
			Message:     fmt.Sprintf("CheckAndClaimPrize: Unable to get form data, FormId:%s, err:%v", formId, err),
			ServiceName: config.ServiceName,
		})
	}
	if !isDistributed {
		err = errors.New("not distributed")
		return utils.JsonErrorResponse(c, fiber.StatusConflict, model.ErrNotDistributed, "Prizes are not distributed yet")
	}
	// looking the row up by the session wallet is the identity check:
	// a caller can only ever claim its own entry
	var isWinner, claimed bool
	err = tx.QueryRow(ctx,
		`select is_winner, claimed from participant where form_id = $1 and wallet = $2 for update`, formId, session.Wallet).
		Scan(&isWinner, &claimed)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return utils.JsonErrorResponse(c, fiber.StatusNotFound, model.ErrNotAParticipant, "This wallet has no submission for this form")
		}
		return utils.JsonErrorResponse(c, fiber.StatusInternalServerError, model.ErrInternal, "Claim failed", utils.Logger{
			LogLevel:    utils.CRITICAL,
			Message:     fmt.Sprintf("CheckAndClaimPrize: Unable to get participant data, FormId:%s, Wallet:%s, err:%v", formId, session.Wallet, err),
			ServiceName: config.ServiceName,
		})
	}
	if !isWinner {
		err = errors.New("not a winner")
		return utils.JsonErrorResponse(c, fiber.StatusConflict, model.ErrNotAWinner, "This wallet is not a winner of this form")
	}
	if claimed {
		err = errors.New("already claimed")
		return utils.JsonErrorResponse(c, fiber.StatusConflict, model.ErrAlreadyClaimed, "Prize was already claimed")
	}
	share := draw.Share(prizePool, draw.WinnersCount(participantCount))
	now := ledger.Now()
	if _, err = tx.Exec(ctx,
		`update participant set claimed = true, claimed_at = $1 where form_id = $2 and wallet = $3`,
		now, formId, session.Wallet); err != nil {
		return utils.JsonErrorResponse(c, fiber.StatusInternalServerError, model.ErrInternal, "Claim failed", utils.Logger{
			LogLevel:    utils.CRITICAL,
			Message:     fmt.Sprintf("CheckAndClaimPrize: Unable to mark claim, FormId:%s, Wallet:%s, err:%v", formId, session.Wallet, err),
			ServiceName: config.ServiceName,
		})
	}
	if _, err = tx.Exec(ctx,
		`insert into payout (id, form_id, wallet, amount, kind) values ($1, $2, $3, $4, 'claim')`,
		uuid.NewString(), formId, session.Wallet, share); err != nil {
		return utils.JsonErrorResponse(c, fiber.StatusInternalServerError, model.ErrInternal, "Claim failed", utils.Logger{
			LogLevel:    utils.CRITICAL,
			Message:     fmt.Sprintf("CheckAndClaimPrize: Unable to record payout, FormId:%s, Wallet:%s, err:%v", formId, session.Wallet, err),
			ServiceName: config.ServiceName,
		})
	}
	if err = tx.Commit(context.Background()); err != nil {
		return utils.JsonErrorResponse(c, fiber.StatusInternalServerError, model.ErrInternal, "Claim failed", utils.Logger{
			LogLevel:    utils.CRITICAL,
			Message:     fmt.Sprintf("CheckAndClaimPrize: Unable to commit transaction, FormId:%s, err:%v", formId, err),
			ServiceName: config.ServiceName,
		})
	}
	return c.JSON(fiber.Map{"status": 200, "message": "Prize claimed successfully",
		"data": fiber.Map{"form_id": formId, "wallet": session.Wallet, "amount": share}})
}

/*
Recompute the winner set from the public seed and the arrival-ordered
participant list. Anyone holding both gets the same answer, which is what
makes the draw independently verifiable. The stored flags are cross-checked
against the recomputation.
*/
func GetWinners(c *fiber.Ctx) error {
	formId := c.Params("formId")
	form, err := scanForm(config.DB.QueryRow(ctx, `select `+formColumns+` from form where form_id = $1`, formId))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return utils.JsonErrorResponse(c, fiber.StatusNotFound, model.ErrFormNotFound, "Form id provided is not valid")
		}
		return utils.JsonErrorResponse(c, fiber.StatusInternalServerError, model.ErrInternal, "Get winners failed", utils.Logger{
			LogLevel:    utils.CRITICAL,
			Message:     fmt.Sprintf("GetWinners: Unable to get form data, FormId:%s, err:%v", formId, err),
			ServiceName: config.ServiceName,
		})
	}
	if !form.IsDistributed || form.RandomSeed == nil {
		return utils.JsonErrorResponse(c, fiber.StatusConflict, model.ErrNotDistributed, "Prizes are not distributed yet")
	}
	participants, err := fetchParticipants(
		`select `+participantColumns+` from participant where form_id = $1 order by participant_index`, formId)
	if err != nil {
		return utils.JsonErrorResponse(c, fiber.StatusInternalServerError, model.ErrInternal, "Get winners failed", utils.Logger{
			LogLevel:    utils.CRITICAL,
			Message:     fmt.Sprintf("GetWinners: Unable to get participants data, FormId:%s, err:%v", formId, err),
			ServiceName: config.ServiceName,
		})
	}
	winnerIndexes := draw.Winners(*form.RandomSeed, len(participants))
	selected := make(map[int]bool, len(winnerIndexes))
	for _, index := range winnerIndexes {
		selected[index] = true
	}
	winners := []*model.Participant{}
	for _, participant := range participants {
		if selected[participant.ParticipantIndex] != participant.IsWinner {
			return utils.JsonErrorResponse(c, fiber.StatusInternalServerError, model.ErrInternal, "Stored winner flags do not match the seed recomputation", utils.Logger{
				LogLevel:    utils.CRITICAL,
				Message:     fmt.Sprintf("GetWinners: winner flag mismatch, FormId:%s, index:%d", formId, participant.ParticipantIndex),
				ServiceName: config.ServiceName,
			})
		}
		if participant.IsWinner {
			winners = append(winners, participant)
		}
	}
	return c.JSON(fiber.Map{"status": fiber.StatusOK, "message": "success", "data": fiber.Map{
		"form_id":          formId,
		"random_seed":      fmt.Sprintf("%d", *form.RandomSeed),
		"per_winner_share": draw.Share(form.PrizePool, len(winnerIndexes)),
		"winners":          winners,
	}})
}

func GetPayouts(c *fiber.Ctx) error {
	formId := c.Params("formId")
	payouts := []*model.Payout{}
	rows, err := config.DB.Query(ctx,
		`select id, form_id, wallet, amount, kind, created_at from payout where form_id = $1 order by created_at`, formId)
	if err != nil {
		return utils.JsonErrorResponse(c, fiber.StatusInternalServerError, model.ErrInternal, "Get payouts data failed", utils.Logger{
			LogLevel:    utils.CRITICAL,
			Message:     fmt.Sprintf("GetPayouts: Unable to get payouts data, FormId:%s, err:%v", formId, err),
			ServiceName: config.ServiceName,
		})
	}
	defer rows.Close()
	for rows.Next() {
		payout := new(model.Payout)
		err = rows.Scan(&payout.Id, &payout.FormId, &payout.Wallet, &payout.Amount, &payout.Kind, &payout.CreatedAt)
		if err != nil {
			return utils.JsonErrorResponse(c, fiber.StatusInternalServerError, model.ErrInternal, "Get payouts data failed", utils.Logger{
				LogLevel:    utils.CRITICAL,
				Message:     fmt.Sprintf("GetPayouts: Unable to scan payout data, FormId:%s, err:%v", formId, err),
				ServiceName: config.ServiceName,
			})
		}
		payouts = append(payouts, payout)
	}
	return c.JSON(fiber.Map{"status": fiber.StatusOK, "message": "success", "data": payouts})
}
