package catalog

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopdesk/backend/internal/domain/catalog"
	"github.com/shopdesk/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestCustomerServiceCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("creates customer", func(t *testing.T) {
		customerRepo := new(MockCustomerRepository)
		service := NewCustomerService(customerRepo, new(MockOrderRepository))

		customerRepo.On("Create", ctx, mock.AnythingOfType("*catalog.Customer")).Return(nil)

		resp, err := service.Create(ctx, CreateCustomerRequest{
			Name:  "Alice",
			Email: "Alice@Example.com",
		})
		require.NoError(t, err)
		assert.Equal(t, "Alice", resp.Name)
		assert.Equal(t, "alice@example.com", resp.Email)
		customerRepo.AssertExpectations(t)
	})

	t.Run("surfaces email collision", func(t *testing.T) {
		customerRepo := new(MockCustomerRepository)
		service := NewCustomerService(customerRepo, new(MockOrderRepository))

		customerRepo.On("Create", ctx, mock.AnythingOfType("*catalog.Customer")).Return(shared.ErrAlreadyExists)

		_, err := service.Create(ctx, CreateCustomerRequest{
			Name:  "Alice",
			Email: "alice@example.com",
		})
		assert.ErrorIs(t, err, shared.ErrAlreadyExists)
	})

	t.Run("rejects invalid input before touching the store", func(t *testing.T) {
		customerRepo := new(MockCustomerRepository)
		service := NewCustomerService(customerRepo, new(MockOrderRepository))

		_, err := service.Create(ctx, CreateCustomerRequest{Name: "Alice", Email: "not-an-email"})
		require.Error(t, err)
		customerRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}

func TestCustomerServiceUpdate(t *testing.T) {
	ctx := context.Background()

	t.Run("updates existing customer", func(t *testing.T) {
		customerRepo := new(MockCustomerRepository)
		service := NewCustomerService(customerRepo, new(MockOrderRepository))

		existing, err := catalog.NewCustomer("Alice", "alice@example.com", "")
		require.NoError(t, err)
		customerRepo.On("FindByID", ctx, existing.ID).Return(existing, nil)
		customerRepo.On("Update", ctx, existing).Return(nil)

		resp, err := service.Update(ctx, existing.ID, UpdateCustomerRequest{
			Name:  "Alice Smith",
			Email: "alice.s@example.com",
		})
		require.NoError(t, err)
		assert.Equal(t, "Alice Smith", resp.Name)
		customerRepo.AssertExpectations(t)
	})

	t.Run("fails for unknown customer", func(t *testing.T) {
		customerRepo := new(MockCustomerRepository)
		service := NewCustomerService(customerRepo, new(MockOrderRepository))

		id := uuid.New()
		customerRepo.On("FindByID", ctx, id).Return(nil, shared.ErrNotFound)

		_, err := service.Update(ctx, id, UpdateCustomerRequest{Name: "Alice", Email: "alice@example.com"})
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestCustomerServiceDelete(t *testing.T) {
	ctx := context.Background()

	newExisting := func(t *testing.T) *catalog.Customer {
		t.Helper()
		customer, err := catalog.NewCustomer("Alice", "alice@example.com", "")
		require.NoError(t, err)
		return customer
	}

	t.Run("deletes customer without orders", func(t *testing.T) {
		customerRepo := new(MockCustomerRepository)
		orderRepo := new(MockOrderRepository)
		service := NewCustomerService(customerRepo, orderRepo)

		existing := newExisting(t)
		customerRepo.On("FindByID", ctx, existing.ID).Return(existing, nil)
		orderRepo.On("CountByCustomer", ctx, existing.ID).Return(int64(0), nil)
		customerRepo.On("Delete", ctx, existing.ID).Return(nil)

		require.NoError(t, service.Delete(ctx, existing.ID))
		customerRepo.AssertExpectations(t)
	})

	t.Run("refuses to delete customer with orders", func(t *testing.T) {
		customerRepo := new(MockCustomerRepository)
		orderRepo := new(MockOrderRepository)
		service := NewCustomerService(customerRepo, orderRepo)

		existing := newExisting(t)
		customerRepo.On("FindByID", ctx, existing.ID).Return(existing, nil)
		orderRepo.On("CountByCustomer", ctx, existing.ID).Return(int64(2), nil)

		err := service.Delete(ctx, existing.ID)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "has orders")
		customerRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})
}
