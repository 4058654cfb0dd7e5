package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"
	"unicode/utf8"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"contact-hub/internal/managers"
	"contact-hub/internal/middleware"
	"contact-hub/internal/schemas"
	"contact-hub/internal/utils"
)

const (
	birthdayFormat = "2006-01-02"
	defaultSkip    = 0
	defaultLimit   = 100
	// birthdayWindowDays is the lookahead of the upcoming-birthdays view.
	birthdayWindowDays = 7
	// minSearchLength guards against needle strings that would match
	// essentially every row.
	minSearchLength = 3

	uniqueViolationCode = "23505"
)

// ContactHdl is the contract for the address-book routes. Every operation is
// scoped to the authenticated owner; contacts of other users behave as if
// they did not exist.
type ContactHdl interface {
	CreateContact(ctx *gin.Context)
	GetContacts(ctx *gin.Context)
	GetContact(ctx *gin.Context)
	UpdateContact(ctx *gin.Context)
	DeleteContact(ctx *gin.Context)
	SearchContacts(ctx *gin.Context)
	GetBirthdays(ctx *gin.Context)
}

// ContactHandler implements ContactHdl on top of the database manager.
type ContactHandler struct {
	databaseMgr managers.DatabaseMgr
}

// NewContactHandler returns a new ContactHandler with the given database manager.
func NewContactHandler(databaseMgr managers.DatabaseMgr) ContactHdl {
	return &ContactHandler{databaseMgr: databaseMgr}
}

// CreateContact stores a new contact for the authenticated user. The contact
// email must be unique within that user's address book; the same address may
// exist in other users' books.
func (handler *ContactHandler) CreateContact(ctx *gin.Context) {
	createRequest := ctx.Value(utils.SanitizedPayloadKey.String()).(*schemas.CreateContactRequest)
	user, ok := middleware.GetCurrentUser(ctx)
	if !ok {
		utils.WriteAndLogError(ctx, schemas.Unauthorized, http.StatusUnauthorized,
			errors.New("no authenticated user in request context"))
		return
	}

	birthday, parseErr := time.Parse(birthdayFormat, createRequest.Birthday)
	if parseErr != nil {
		utils.WriteAndLogError(ctx, schemas.BadRequest, http.StatusBadRequest, parseErr)
		return
	}

	tx, transactionCtx, cancel := utils.BeginTransaction(ctx, handler.databaseMgr.GetPool())
	if tx == nil || transactionCtx == nil {
		return
	}
	var err error
	defer func() { utils.RollbackTransaction(ctx, tx, transactionCtx, cancel, err) }()

	contact := schemas.Contact{
		FirstName:   createRequest.FirstName,
		LastName:    createRequest.LastName,
		Email:       createRequest.Email,
		PhoneNumber: createRequest.PhoneNumber,
		Birthday:    birthday,
		Note:        createRequest.Note,
		UserID:      user.ID,
	}

	queryString := `INSERT INTO contacts (first_name, last_name, email, phone_number, birthday, note, user_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING contact_id`
	row := tx.QueryRow(transactionCtx, queryString, contact.FirstName, contact.LastName, contact.Email,
		contact.PhoneNumber, contact.Birthday, contact.Note, contact.UserID)
	if err = row.Scan(&contact.ID); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			utils.WriteAndLogError(ctx, schemas.DuplicateContact, http.StatusBadRequest, err)
			return
		}
		utils.WriteAndLogError(ctx, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	if err = utils.CommitTransaction(ctx, tx, transactionCtx); err != nil {
		return
	}

	utils.WriteAndLogResponse(ctx, contactDTOFromContact(&contact), http.StatusCreated)
}

// GetContacts lists the user's contacts with skip/limit pagination.
func (handler *ContactHandler) GetContacts(ctx *gin.Context) {
	user, ok := middleware.GetCurrentUser(ctx)
	if !ok {
		utils.WriteAndLogError(ctx, schemas.Unauthorized, http.StatusUnauthorized,
			errors.New("no authenticated user in request context"))
		return
	}

	skip, limit, paramErr := paginationParams(ctx)
	if paramErr != nil {
		utils.WriteAndLogError(ctx, schemas.BadRequest, http.StatusBadRequest, paramErr)
		return
	}

	tx, transactionCtx, cancel := utils.BeginTransaction(ctx, handler.databaseMgr.GetPool())
	if tx == nil || transactionCtx == nil {
		return
	}
	var err error
	defer func() { utils.RollbackTransaction(ctx, tx, transactionCtx, cancel, err) }()

	queryString := `SELECT contact_id, first_name, last_name, email, phone_number, birthday, note, user_id
		FROM contacts WHERE user_id = $1 ORDER BY contact_id OFFSET $2 LIMIT $3`
	rows, err := tx.Query(transactionCtx, queryString, user.ID, skip, limit)
	if err != nil {
		utils.WriteAndLogError(ctx, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	contacts, err := scanContacts(rows)
	if err != nil {
		utils.WriteAndLogError(ctx, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	if err = utils.CommitTransaction(ctx, tx, transactionCtx); err != nil {
		return
	}

	utils.WriteAndLogResponse(ctx, contactDTOsFromContacts(contacts), http.StatusOK)
}

// GetContact returns a single contact of the authenticated user.
func (handler *ContactHandler) GetContact(ctx *gin.Context) {
	user, ok := middleware.GetCurrentUser(ctx)
	if !ok {
		utils.WriteAndLogError(ctx, schemas.Unauthorized, http.StatusUnauthorized,
			errors.New("no authenticated user in request context"))
		return
	}

	contactId, paramErr := contactIdParam(ctx)
	if paramErr != nil {
		utils.WriteAndLogError(ctx, schemas.BadRequest, http.StatusBadRequest, paramErr)
		return
	}

	tx, transactionCtx, cancel := utils.BeginTransaction(ctx, handler.databaseMgr.GetPool())
	if tx == nil || transactionCtx == nil {
		return
	}
	var err error
	defer func() { utils.RollbackTransaction(ctx, tx, transactionCtx, cancel, err) }()

	contact, err := fetchContact(transactionCtx, tx, contactId, user.ID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			utils.WriteAndLogError(ctx, schemas.ContactNotFound, http.StatusNotFound, err)
			return
		}
		utils.WriteAndLogError(ctx, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	if err = utils.CommitTransaction(ctx, tx, transactionCtx); err != nil {
		return
	}

	utils.WriteAndLogResponse(ctx, contactDTOFromContact(contact), http.StatusOK)
}

// UpdateContact applies a partial update to one contact. Omitted fields keep
// their stored values.
func (handler *ContactHandler) UpdateContact(ctx *gin.Context) {
	updateRequest := ctx.Value(utils.SanitizedPayloadKey.String()).(*schemas.UpdateContactRequest)
	user, ok := middleware.GetCurrentUser(ctx)
	if !ok {
		utils.WriteAndLogError(ctx, schemas.Unauthorized, http.StatusUnauthorized,
			errors.New("no authenticated user in request context"))
		return
	}

	contactId, paramErr := contactIdParam(ctx)
	if paramErr != nil {
		utils.WriteAndLogError(ctx, schemas.BadRequest, http.StatusBadRequest, paramErr)
		return
	}

	tx, transactionCtx, cancel := utils.BeginTransaction(ctx, handler.databaseMgr.GetPool())
	if tx == nil || transactionCtx == nil {
		return
	}
	var err error
	defer func() { utils.RollbackTransaction(ctx, tx, transactionCtx, cancel, err) }()

	contact, err := fetchContact(transactionCtx, tx, contactId, user.ID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			utils.WriteAndLogError(ctx, schemas.ContactNotFound, http.StatusNotFound, err)
			return
		}
		utils.WriteAndLogError(ctx, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	if updateRequest.FirstName != nil {
		contact.FirstName = *updateRequest.FirstName
	}
	if updateRequest.LastName != nil {
		contact.LastName = *updateRequest.LastName
	}
	if updateRequest.Email != nil {
		contact.Email = *updateRequest.Email
	}
	if updateRequest.PhoneNumber != nil {
		contact.PhoneNumber = *updateRequest.PhoneNumber
	}
	if updateRequest.Birthday != nil {
		birthday, parseErr := time.Parse(birthdayFormat, *updateRequest.Birthday)
		if parseErr != nil {
			err = parseErr
			utils.WriteAndLogError(ctx, schemas.BadRequest, http.StatusBadRequest, err)
			return
		}
		contact.Birthday = birthday
	}
	if updateRequest.Note != nil {
		contact.Note = updateRequest.Note
	}

	queryString := `UPDATE contacts SET first_name = $1, last_name = $2, email = $3, phone_number = $4,
		birthday = $5, note = $6 WHERE contact_id = $7 AND user_id = $8`
	if _, err = tx.Exec(transactionCtx, queryString, contact.FirstName, contact.LastName, contact.Email,
		contact.PhoneNumber, contact.Birthday, contact.Note, contact.ID, user.ID); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			utils.WriteAndLogError(ctx, schemas.DuplicateContact, http.StatusBadRequest, err)
			return
		}
		utils.WriteAndLogError(ctx, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	if err = utils.CommitTransaction(ctx, tx, transactionCtx); err != nil {
		return
	}

	utils.WriteAndLogResponse(ctx, contactDTOFromContact(contact), http.StatusOK)
}

// DeleteContact removes one contact of the authenticated user.
func (handler *ContactHandler) DeleteContact(ctx *gin.Context) {
	user, ok := middleware.GetCurrentUser(ctx)
	if !ok {
		utils.WriteAndLogError(ctx, schemas.Unauthorized, http.StatusUnauthorized,
			errors.New("no authenticated user in request context"))
		return
	}

	contactId, paramErr := contactIdParam(ctx)
	if paramErr != nil {
		utils.WriteAndLogError(ctx, schemas.BadRequest, http.StatusBadRequest, paramErr)
		return
	}

	tx, transactionCtx, cancel := utils.BeginTransaction(ctx, handler.databaseMgr.GetPool())
	if tx == nil || transactionCtx == nil {
		return
	}
	var err error
	defer func() { utils.RollbackTransaction(ctx, tx, transactionCtx, cancel, err) }()

	queryString := "DELETE FROM contacts WHERE contact_id = $1 AND user_id = $2"
	commandTag, err := tx.Exec(transactionCtx, queryString, contactId, user.ID)
	if err != nil {
		utils.WriteAndLogError(ctx, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}
	if commandTag.RowsAffected() == 0 {
		err = pgx.ErrNoRows
		utils.WriteAndLogError(ctx, schemas.ContactNotFound, http.StatusNotFound, err)
		return
	}

	if err = utils.CommitTransaction(ctx, tx, transactionCtx); err != nil {
		return
	}

	ctx.Status(http.StatusNoContent)
}

// SearchContacts matches the needle case-insensitively against first name,
// last name and email. An empty result is reported as not found.
func (handler *ContactHandler) SearchContacts(ctx *gin.Context) {
	user, ok := middleware.GetCurrentUser(ctx)
	if !ok {
		utils.WriteAndLogError(ctx, schemas.Unauthorized, http.StatusUnauthorized,
			errors.New("no authenticated user in request context"))
		return
	}

	query := ctx.Query(utils.QueryParamKey)
	if utf8.RuneCountInString(query) < minSearchLength {
		utils.WriteAndLogError(ctx, schemas.BadRequest, http.StatusBadRequest,
			errors.New("search needle must be at least 3 characters"))
		return
	}

	tx, transactionCtx, cancel := utils.BeginTransaction(ctx, handler.databaseMgr.GetPool())
	if tx == nil || transactionCtx == nil {
		return
	}
	var err error
	defer func() { utils.RollbackTransaction(ctx, tx, transactionCtx, cancel, err) }()

	queryString := `SELECT contact_id, first_name, last_name, email, phone_number, birthday, note, user_id
		FROM contacts WHERE user_id = $1
		AND (first_name ILIKE $2 OR last_name ILIKE $2 OR email ILIKE $2) ORDER BY contact_id`
	rows, err := tx.Query(transactionCtx, queryString, user.ID, "%"+query+"%")
	if err != nil {
		utils.WriteAndLogError(ctx, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	contacts, err := scanContacts(rows)
	if err != nil {
		utils.WriteAndLogError(ctx, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	if err = utils.CommitTransaction(ctx, tx, transactionCtx); err != nil {
		return
	}

	if len(contacts) == 0 {
		utils.WriteAndLogError(ctx, schemas.ContactNotFound, http.StatusNotFound,
			errors.New("no contacts matched the search"))
		return
	}

	utils.WriteAndLogResponse(ctx, contactDTOsFromContacts(contacts), http.StatusOK)
}

// GetBirthdays returns the contacts whose birthday falls into the next seven
// days, today included. The year rolls over at the end of December.
func (handler *ContactHandler) GetBirthdays(ctx *gin.Context) {
	user, ok := middleware.GetCurrentUser(ctx)
	if !ok {
		utils.WriteAndLogError(ctx, schemas.Unauthorized, http.StatusUnauthorized,
			errors.New("no authenticated user in request context"))
		return
	}

	tx, transactionCtx, cancel := utils.BeginTransaction(ctx, handler.databaseMgr.GetPool())
	if tx == nil || transactionCtx == nil {
		return
	}
	var err error
	defer func() { utils.RollbackTransaction(ctx, tx, transactionCtx, cancel, err) }()

	queryString := `SELECT contact_id, first_name, last_name, email, phone_number, birthday, note, user_id
		FROM contacts WHERE user_id = $1 ORDER BY contact_id`
	rows, err := tx.Query(transactionCtx, queryString, user.ID)
	if err != nil {
		utils.WriteAndLogError(ctx, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	contacts, err := scanContacts(rows)
	if err != nil {
		utils.WriteAndLogError(ctx, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	if err = utils.CommitTransaction(ctx, tx, transactionCtx); err != nil {
		return
	}

	today := time.Now()
	upcoming := make([]*schemas.Contact, 0)
	for _, contact := range contacts {
		if utils.BirthdayInWindow(contact.Birthday, today, birthdayWindowDays) {
			upcoming = append(upcoming, contact)
		}
	}

	utils.WriteAndLogResponse(ctx, contactDTOsFromContacts(upcoming), http.StatusOK)
}

// fetchContact loads one contact scoped to its owner.
func fetchContact(transactionCtx context.Context, tx pgx.Tx, contactId, userId int64) (*schemas.Contact, error) {
	contact := schemas.Contact{}
	queryString := `SELECT contact_id, first_name, last_name, email, phone_number, birthday, note, user_id
		FROM contacts WHERE contact_id = $1 AND user_id = $2`
	row := tx.QueryRow(transactionCtx, queryString, contactId, userId)
	err := row.Scan(&contact.ID, &contact.FirstName, &contact.LastName, &contact.Email,
		&contact.PhoneNumber, &contact.Birthday, &contact.Note, &contact.UserID)
	if err != nil {
		return nil, err
	}
	return &contact, nil
}

func scanContacts(rows pgx.Rows) ([]*schemas.Contact, error) {
	defer rows.Close()

	contacts := make([]*schemas.Contact, 0)
	for rows.Next() {
		contact := schemas.Contact{}
		if err := rows.Scan(&contact.ID, &contact.FirstName, &contact.LastName, &contact.Email,
			&contact.PhoneNumber, &contact.Birthday, &contact.Note, &contact.UserID); err != nil {
			return nil, err
		}
		contacts = append(contacts, &contact)
	}

	return contacts, rows.Err()
}

func contactIdParam(ctx *gin.Context) (int64, error) {
	return strconv.ParseInt(ctx.Param(utils.ContactIdKey), 10, 64)
}

// paginationParams reads skip and limit, falling back to 0 and 100.
func paginationParams(ctx *gin.Context) (int, int, error) {
	skip := defaultSkip
	limit := defaultLimit

	if skipString := ctx.Query(utils.SkipParamKey); skipString != "" {
		parsed, err := strconv.Atoi(skipString)
		if err != nil || parsed < 0 {
			return 0, 0, errors.New("skip must be a non-negative integer")
		}
		skip = parsed
	}
	if limitString := ctx.Query(utils.LimitParamKey); limitString != "" {
		parsed, err := strconv.Atoi(limitString)
		if err != nil || parsed < 0 {
			return 0, 0, errors.New("limit must be a non-negative integer")
		}
		limit = parsed
	}

	return skip, limit, nil
}

func contactDTOFromContact(contact *schemas.Contact) *schemas.ContactDTO {
	return &schemas.ContactDTO{
		ID:          contact.ID,
		FirstName:   contact.FirstName,
		LastName:    contact.LastName,
		Email:       contact.Email,
		PhoneNumber: contact.PhoneNumber,
		Birthday:    contact.Birthday.Format(birthdayFormat),
		Note:        contact.Note,
	}
}

func contactDTOsFromContacts(contacts []*schemas.Contact) []*schemas.ContactDTO {
	dtos := make([]*schemas.ContactDTO, 0, len(contacts))
	for _, contact := range contacts {
		dtos = append(dtos, contactDTOFromContact(contact))
	}
	return dtos
}
