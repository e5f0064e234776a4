package services_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"bibliotheque/internal/adapters/persistence/models"
	"bibliotheque/internal/core/domain"
	"bibliotheque/internal/core/services"

	"pgregory.net/rapid"
)

// A book is available exactly when none of its loans is open, whatever
// sequence of lends, returns and deletions led there.
func TestLendingService_AvailabilityTracksOpenLoans(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	rapid.Check(t, func(rt *rapid.T) {
		for _, table := range []string{"emprunts", "livres", "membres"} {
			if _, err := e.db.SQL.Exec("DELETE FROM " + table); err != nil {
				rt.Fatalf("clear %s: %v", table, err)
			}
		}

		var bookIDs, memberIDs []uint
		for i := 0; i < 3; i++ {
			book, err := e.books.Create(ctx, services.BookInput{Title: fmt.Sprintf("Book %d", i), Author: "Author", ISBN: fmt.Sprintf("isbn-%d", i)})
			if err != nil {
				rt.Fatalf("create book: %v", err)
			}
			bookIDs = append(bookIDs, book.ID)
		}
		for i := 0; i < 2; i++ {
			member, err := e.members.Create(ctx, services.MemberInput{LastName: "Member", FirstName: fmt.Sprint(i), Email: fmt.Sprintf("m%d@example.com", i)})
			if err != nil {
				rt.Fatalf("create member: %v", err)
			}
			memberIDs = append(memberIDs, member.ID)
		}

		loans := func() []*models.Loan {
			all, err := e.lending.List(ctx, services.LoanFilter{})
			if err != nil {
				rt.Fatalf("list loans: %v", err)
			}
			return all
		}

		rt.Repeat(map[string]func(*rapid.T){
			"lend": func(rt *rapid.T) {
				_, err := e.lending.Lend(ctx, services.LoanInput{
					BookID:             rapid.SampledFrom(bookIDs).Draw(rt, "book"),
					MemberID:           rapid.SampledFrom(memberIDs).Draw(rt, "member"),
					ExpectedReturnDate: "2024-04-01",
				})
				if err != nil && !errors.Is(err, domain.ErrBookNotAvailable) {
					rt.Fatalf("lend: %v", err)
				}
			},
			"return": func(rt *rapid.T) {
				all := loans()
				if len(all) == 0 {
					return
				}
				loan := rapid.SampledFrom(all).Draw(rt, "loan")
				_, err := e.lending.Return(ctx, loan.ID, "")
				if err != nil && !errors.Is(err, domain.ErrLoanAlreadyReturned) {
					rt.Fatalf("return: %v", err)
				}
			},
			"delete": func(rt *rapid.T) {
				all := loans()
				if len(all) == 0 {
					return
				}
				loan := rapid.SampledFrom(all).Draw(rt, "loan")
				if err := e.lending.Delete(ctx, loan.ID); err != nil {
					rt.Fatalf("delete: %v", err)
				}
			},
			"": func(rt *rapid.T) {
				open := make(map[uint]int)
				for _, loan := range loans() {
					if loan.InProgress() {
						open[loan.BookID]++
					}
				}
				for _, id := range bookIDs {
					book, err := e.books.Get(ctx, id)
					if err != nil {
						rt.Fatalf("get book: %v", err)
					}
					if open[id] > 1 {
						rt.Fatalf("book %d has %d open loans", id, open[id])
					}
					if book.Available != (open[id] == 0) {
						rt.Fatalf("book %d available=%v with %d open loans", id, book.Available, open[id])
					}
				}
			},
		})
	})
}
