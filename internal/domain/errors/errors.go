package errors

import (
	"fmt"
)

type ErrChatNotFound struct {
	ChatID int64
}

func (e *ErrChatNotFound) Error() string {
	return fmt.Sprintf("чат не найден: %d", e.ChatID)
}

func (e *ErrChatNotFound) Is(target error) bool {
	_, ok := target.(*ErrChatNotFound)
	return ok
}

type ErrUnknownCommand struct {
	Command string
}

func (e *ErrUnknownCommand) Error() string {
	return "неизвестная команда: " + e.Command
}

func (e *ErrUnknownCommand) Is(target error) bool {
	_, ok := target.(*ErrUnknownCommand)
	return ok
}

type ErrUnknownSetting struct {
	Setting string
}

func (e *ErrUnknownSetting) Error() string {
	return "неизвестная настройка: " + e.Setting
}

func (e *ErrUnknownSetting) Is(target error) bool {
	_, ok := target.(*ErrUnknownSetting)
	return ok
}

type ErrInvalidXmasDay struct {
	Day string
}

func (e *ErrInvalidXmasDay) Error() string {
	return fmt.Sprintf("некорректный день Рождества: %s (допустимы 24 и 25)", e.Day)
}

func (e *ErrInvalidXmasDay) Is(target error) bool {
	_, ok := target.(*ErrInvalidXmasDay)
	return ok
}

type ErrInvalidReminderTime struct {
	Value string
}

func (e *ErrInvalidReminderTime) Error() string {
	return fmt.Sprintf("некорректное время напоминания: %s (ожидается ЧЧ:ММ)", e.Value)
}

func (e *ErrInvalidReminderTime) Is(target error) bool {
	_, ok := target.(*ErrInvalidReminderTime)
	return ok
}

type ErrJobAlreadyExists struct {
	Key string
}

func (e *ErrJobAlreadyExists) Error() string {
	return fmt.Sprintf("задача с ключом %q уже существует, используйте ReplaceDaily", e.Key)
}

func (e *ErrJobAlreadyExists) Is(target error) bool {
	_, ok := target.(*ErrJobAlreadyExists)
	return ok
}

type ErrBuildSQLQuery struct {
	Operation string
	Cause     error
}

func (e *ErrBuildSQLQuery) Error() string {
	return fmt.Sprintf("ошибка при построении SQL запроса для %s: %v", e.Operation, e.Cause)
}

func (e *ErrBuildSQLQuery) Unwrap() error {
	return e.Cause
}

type ErrSQLExecution struct {
	Operation string
	Cause     error
}

func (e *ErrSQLExecution) Error() string {
	return fmt.Sprintf("ошибка при выполнении SQL запроса для %s: %v", e.Operation, e.Cause)
}

func (e *ErrSQLExecution) Unwrap() error {
	return e.Cause
}

type ErrSQLScan struct {
	Entity string
	Cause  error
}

func (e *ErrSQLScan) Error() string {
	return fmt.Sprintf("ошибка при сканировании %s: %v", e.Entity, e.Cause)
}

func (e *ErrSQLScan) Unwrap() error {
	return e.Cause
}

type ErrBeginTransaction struct {
	Cause error
}

func (e *ErrBeginTransaction) Error() string {
	return fmt.Sprintf("ошибка при начале транзакции: %v", e.Cause)
}

func (e *ErrBeginTransaction) Unwrap() error {
	return e.Cause
}

type ErrCommitTransaction struct {
	Cause error
}

func (e *ErrCommitTransaction) Error() string {
	return fmt.Sprintf("ошибка при фиксации транзакции: %v", e.Cause)
}

func (e *ErrCommitTransaction) Unwrap() error {
	return e.Cause
}

type ErrUnknownDBAccessType struct {
	AccessType string
}

func (e *ErrUnknownDBAccessType) Error() string {
	return fmt.Sprintf("неизвестный тип доступа к базе данных: %s", e.AccessType)
}

type ErrTelegramSend struct {
	ChatID int64
	Cause  error
}

func (e *ErrTelegramSend) Error() string {
	return fmt.Sprintf("ошибка при отправке сообщения в чат %d: %v", e.ChatID, e.Cause)
}

func (e *ErrTelegramSend) Unwrap() error {
	return e.Cause
}

func (e *ErrTelegramSend) Is(target error) bool {
	_, ok := target.(*ErrTelegramSend)
	return ok
}
