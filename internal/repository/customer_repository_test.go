package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/okellodaniel/customerbase/internal/models"
)

func newMockRepository(t *testing.T) (CustomerRepository, sqlmock.Sqlmock, func()) {
	t.Helper()

	mockDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New() error = %v", err)
	}

	return NewCustomerRepository(mockDB), mock, func() { mockDB.Close() }
}

func TestCustomerRepository_Create(t *testing.T) {
	repo, mock, closeDB := newMockRepository(t)
	defer closeDB()

	mock.ExpectQuery(`INSERT INTO customers \(name, email, age\)`).
		WithArgs("Alice", "alice@example.com", 30).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(7)))

	customer := &models.Customer{Name: "Alice", Email: "alice@example.com", Age: 30}
	if err := repo.Create(context.Background(), customer); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if customer.ID != 7 {
		t.Errorf("ID = %d, want 7", customer.ID)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestCustomerRepository_List(t *testing.T) {
	repo, mock, closeDB := newMockRepository(t)
	defer closeDB()

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM customers`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(int64(25)))

	rows := sqlmock.NewRows([]string{"id", "name", "email", "age"}).
		AddRow(int64(21), "Customer 21", "customer21@example.com", 30).
		AddRow(int64(22), "Customer 22", "customer22@example.com", 31)
	mock.ExpectQuery(`SELECT id, name, email, age\s+FROM customers\s+ORDER BY id\s+LIMIT \$1 OFFSET \$2`).
		WithArgs(10, 20).
		WillReturnRows(rows)

	customers, total, err := repo.List(context.Background(), 20, 10)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}

	if total != 25 {
		t.Errorf("total = %d, want 25", total)
	}
	if len(customers) != 2 {
		t.Fatalf("count = %d, want 2", len(customers))
	}
	if customers[0].ID != 21 || customers[1].Email != "customer22@example.com" {
		t.Errorf("rows scanned incorrectly: %+v", customers)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestCustomerRepository_List_ClampsParams(t *testing.T) {
	repo, mock, closeDB := newMockRepository(t)
	defer closeDB()

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM customers`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(int64(0)))
	mock.ExpectQuery(`SELECT id, name, email, age`).
		WithArgs(models.DefaultLimit, 0).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "email", "age"}))

	if _, _, err := repo.List(context.Background(), -5, 0); err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestCustomerRepository_Update_NotFound(t *testing.T) {
	repo, mock, closeDB := newMockRepository(t)
	defer closeDB()

	mock.ExpectExec(`UPDATE customers`).
		WithArgs("Ghost", "ghost@example.com", 40, int64(99)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Update(context.Background(), &models.Customer{
		ID: 99, Name: "Ghost", Email: "ghost@example.com", Age: 40,
	})
	if !errors.Is(err, models.ErrNotFound) {
		t.Errorf("Update() error = %v, want ErrNotFound", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestCustomerRepository_Delete_ReturnsDeletedRow(t *testing.T) {
	repo, mock, closeDB := newMockRepository(t)
	defer closeDB()

	mock.ExpectQuery(`DELETE FROM customers\s+WHERE id = \$1\s+RETURNING id, name, email, age`).
		WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "email", "age"}).
			AddRow(int64(3), "Gone", "gone@example.com", 44))

	deleted, err := repo.Delete(context.Background(), 3)
	if err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if deleted.Name != "Gone" || deleted.Age != 44 {
		t.Errorf("deleted = %+v", deleted)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestCustomerRepository_Delete_NotFound(t *testing.T) {
	repo, mock, closeDB := newMockRepository(t)
	defer closeDB()

	mock.ExpectQuery(`DELETE FROM customers`).
		WithArgs(int64(99)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "email", "age"}))

	_, err := repo.Delete(context.Background(), 99)
	if !errors.Is(err, models.ErrNotFound) {
		t.Errorf("Delete() error = %v, want ErrNotFound", err)
	}
}

func TestCustomerRepository_CreateBatch(t *testing.T) {
	repo, mock, closeDB := newMockRepository(t)
	defer closeDB()

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO customers \(name, email, age\) VALUES \(\$1, \$2, \$3\), \(\$4, \$5, \$6\)`).
		WithArgs("A", "a@example.com", 20, "B", "b@example.com", 21).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()

	customers := []*models.Customer{
		{Name: "A", Email: "a@example.com", Age: 20},
		{Name: "B", Email: "b@example.com", Age: 21},
	}
	if err := repo.CreateBatch(context.Background(), customers); err != nil {
		t.Fatalf("CreateBatch() error = %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestCustomerRepository_Truncate(t *testing.T) {
	repo, mock, closeDB := newMockRepository(t)
	defer closeDB()

	mock.ExpectExec(`TRUNCATE TABLE customers RESTART IDENTITY`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := repo.Truncate(context.Background()); err != nil {
		t.Fatalf("Truncate() error = %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}
