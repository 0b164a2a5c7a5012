package handler

import (
	"github.com/gin-gonic/gin"

	appbook "github.com/xiebiao/bookcatalog/internal/application/book"
	"github.com/xiebiao/bookcatalog/internal/interface/http/dto"
	"github.com/xiebiao/bookcatalog/pkg/response"
	"github.com/xiebiao/bookcatalog/pkg/validator"
)

// BookHandler 图书HTTP处理器
// 设计说明:
// 1. Handler只负责解析请求、调用应用层、转换响应
// 2. include_related查询参数控制响应中是否带分类名称
type BookHandler struct {
	createUseCase    *appbook.CreateBookUseCase
	getUseCase       *appbook.GetBookUseCase
	listUseCase      *appbook.ListBooksUseCase
	cursorUseCase    *appbook.ListBooksCursorUseCase
	updateUseCase    *appbook.UpdateBookUseCase
	deleteUseCase    *appbook.DeleteBookUseCase
	byDateUseCase    *appbook.BooksByDateUseCase
	expensiveUseCase *appbook.ExpensiveBooksUseCase
}

// NewBookHandler 创建图书处理器
func NewBookHandler(
	createUseCase *appbook.CreateBookUseCase,
	getUseCase *appbook.GetBookUseCase,
	listUseCase *appbook.ListBooksUseCase,
	cursorUseCase *appbook.ListBooksCursorUseCase,
	updateUseCase *appbook.UpdateBookUseCase,
	deleteUseCase *appbook.DeleteBookUseCase,
	byDateUseCase *appbook.BooksByDateUseCase,
	expensiveUseCase *appbook.ExpensiveBooksUseCase,
) *BookHandler {
	return &BookHandler{
		createUseCase:    createUseCase,
		getUseCase:       getUseCase,
		listUseCase:      listUseCase,
		cursorUseCase:    cursorUseCase,
		updateUseCase:    updateUseCase,
		deleteUseCase:    deleteUseCase,
		byDateUseCase:    byDateUseCase,
		expensiveUseCase: expensiveUseCase,
	}
}

// List 图书列表
// @Summary      图书列表
// @Description  分页查询未删除的图书,支持作者/出版社过滤、搜索和排序
// @Tags         图书
// @Produce      json
// @Param        page            query int    false "页码" default(1)
// @Param        page_size       query int    false "每页数量(最大100)" default(5)
// @Param        author          query string false "作者(精确匹配)"
// @Param        publisher       query int    false "出版社ID"
// @Param        search          query string false "书名/作者/出版日期搜索"
// @Param        ordering        query string false "排序,如-price,published_date"
// @Param        include_related query bool   false "是否返回分类名称"
// @Success      200 {object} response.Response{data=response.PageData{list=[]dto.BookResponse}}
// @Failure      400 {object} response.Response "参数错误"
// @Router       /api/v1/books [get]
func (h *BookHandler) List(c *gin.Context) {
	// 1. 绑定查询参数
	var q dto.ListBooksQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.ErrorWithCode(c, 40900, "参数错误: "+validator.Translate(err))
		return
	}

	// 2. 调用应用层用例
	result, err := h.listUseCase.Execute(c.Request.Context(), appbook.ListBooksRequest{
		Page:        q.Page,
		PageSize:    q.PageSize,
		Author:      q.Author,
		PublisherID: q.Publisher,
		Search:      q.Search,
		Ordering:    q.Ordering,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	// 3. 返回分页响应
	response.SuccessWithPage(c,
		dto.NewBookListResponse(result.List, includeRelated(c)),
		result.Total, result.Page, result.PageSize)
}

// Create 创建图书
// @Summary      创建图书
// @Description  创建图书;出版社可传ID或名称,名称不存在时自动创建
// @Tags         图书
// @Accept       json
// @Produce      json
// @Param        request         body  dto.CreateBookRequest true  "图书信息"
// @Param        include_related query bool                  false "是否返回分类名称"
// @Success      201 {object} response.Response{data=dto.BookResponse}
// @Failure      400 {object} response.Response "参数错误/价格过低"
// @Failure      409 {object} response.Response "书名重复"
// @Router       /api/v1/books [post]
func (h *BookHandler) Create(c *gin.Context) {
	// 1. 绑定并验证参数
	var req dto.CreateBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, 40900, "参数错误: "+validator.Translate(err))
		return
	}
	publishedDate, err := parseDate(req.PublishedDate)
	if err != nil {
		response.ErrorWithCode(c, 40900, "参数错误: published_date: 日期格式必须为YYYY-MM-DD")
		return
	}

	// 2. 调用应用层用例
	result, err := h.createUseCase.Execute(c.Request.Context(), appbook.CreateBookRequest{
		Title:           req.Title,
		Author:          req.Author,
		PublishedDate:   publishedDate,
		Registered:      req.Registered,
		Managed:         req.Managed,
		PageCount:       req.PageCount,
		Price:           req.Price,
		DiscountedPrice: req.DiscountedPrice,
		PublisherID:     req.Publisher,
		PublisherName:   req.PublisherName,
		GenreIDs:        req.Genres,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	// 3. 返回201
	response.Created(c, dto.NewBookResponse(result, includeRelated(c)))
}

// Get 图书详情
// @Summary      图书详情
// @Description  已封禁或已删除的图书返回404
// @Tags         图书
// @Produce      json
// @Param        id              path  int  true  "图书ID"
// @Param        include_related query bool false "是否返回分类名称"
// @Success      200 {object} response.Response{data=dto.BookResponse}
// @Failure      404 {object} response.Response "图书不存在或已封禁"
// @Router       /api/v1/books/{id} [get]
func (h *BookHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	result, err := h.getUseCase.Execute(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.NewBookDetailResponse(result, includeRelated(c)))
}

// Put 全量更新图书
// @Summary      更新图书
// @Description  title和published_date必填,其余字段未传时保持原值
// @Tags         图书
// @Accept       json
// @Produce      json
// @Param        id      path int                true "图书ID"
// @Param        request body dto.PutBookRequest true "图书信息"
// @Success      200 {object} response.Response{data=dto.BookResponse}
// @Failure      400 {object} response.Response "参数错误/价格过低"
// @Failure      404 {object} response.Response "图书不存在"
// @Failure      409 {object} response.Response "书名重复"
// @Router       /api/v1/books/{id} [put]
func (h *BookHandler) Put(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req dto.PutBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, 40900, "参数错误: "+validator.Translate(err))
		return
	}
	h.update(c, id, req.Title, req.PublishedDate, req.BookFields)
}

// Patch 部分更新图书
// @Summary      部分更新图书
// @Tags         图书
// @Accept       json
// @Produce      json
// @Param        id      path int                  true "图书ID"
// @Param        request body dto.PatchBookRequest true "需要修改的字段"
// @Success      200 {object} response.Response{data=dto.BookResponse}
// @Failure      400 {object} response.Response "参数错误/价格过低"
// @Failure      404 {object} response.Response "图书不存在"
// @Failure      409 {object} response.Response "书名重复"
// @Router       /api/v1/books/{id} [patch]
func (h *BookHandler) Patch(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req dto.PatchBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, 40900, "参数错误: "+validator.Translate(err))
		return
	}
	h.update(c, id, req.Title, req.PublishedDate, req.BookFields)
}

func (h *BookHandler) update(c *gin.Context, id uint, title, publishedDate *string, fields dto.BookFields) {
	patch, err := toPatch(title, publishedDate, fields)
	if err != nil {
		response.ErrorWithCode(c, 40900, "参数错误: published_date: 日期格式必须为YYYY-MM-DD")
		return
	}

	result, err := h.updateUseCase.Execute(c.Request.Context(), id, patch)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.NewBookResponse(result, includeRelated(c)))
}

// Delete 软删除图书
// @Summary      删除图书
// @Description  软删除,行保留且可由管理接口恢复
// @Tags         图书
// @Param        id path int true "图书ID"
// @Success      204 "删除成功"
// @Failure      404 {object} response.Response "图书不存在"
// @Router       /api/v1/books/{id} [delete]
func (h *BookHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.deleteUseCase.Execute(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Cursor 游标分页
// @Summary      游标分页
// @Description  按出版日期、ID升序翻页,next_cursor为空表示最后一页
// @Tags         图书
// @Produce      json
// @Param        cursor          query string false "上一页返回的next_cursor"
// @Param        page_size       query int    false "每页数量" default(3)
// @Param        include_related query bool   false "是否返回分类名称"
// @Success      200 {object} response.Response{data=dto.CursorPageResponse}
// @Failure      400 {object} response.Response "无效的游标"
// @Router       /api/v1/books/cursor [get]
func (h *BookHandler) Cursor(c *gin.Context) {
	var q dto.CursorQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.ErrorWithCode(c, 40900, "参数错误: "+validator.Translate(err))
		return
	}

	page, err := h.cursorUseCase.Execute(c.Request.Context(), q.Cursor, q.PageSize)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, &dto.CursorPageResponse{
		Results:    dto.NewBookListResponse(page.Results, includeRelated(c)),
		NextCursor: page.NextCursor,
	})
}

// Expensive 高价图书
// @Summary      高价图书
// @Description  价格高于全部有价图书平均价的图书
// @Tags         图书
// @Produce      json
// @Param        include_related query bool false "是否返回分类名称"
// @Success      200 {object} response.Response{data=[]dto.BookResponse}
// @Router       /api/v1/books/expensive [get]
func (h *BookHandler) Expensive(c *gin.Context) {
	results, err := h.expensiveUseCase.Execute(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.NewBookListResponse(results, includeRelated(c)))
}

// ByDate 某天出版的图书
// 路由是/books/:id/:month/:day,:id位置上是4位年份(gin同一层级的通配参数必须同名)
// @Summary      按出版日期查询
// @Tags         图书
// @Produce      json
// @Param        year            path  string true  "年(4位)"
// @Param        month           path  string true  "月(2位)"
// @Param        day             path  string true  "日(2位)"
// @Param        include_related query bool   false "是否返回分类名称"
// @Success      200 {object} response.Response{data=dto.BooksByDateResponse}
// @Failure      400 {object} response.Response "日期不合法"
// @Router       /api/v1/books/{year}/{month}/{day} [get]
func (h *BookHandler) ByDate(c *gin.Context) {
	date, ok := parseDayPath(c.Param("id"), c.Param("month"), c.Param("day"))
	if !ok {
		response.ErrorWithCode(c, 40900, "参数错误: 日期必须是合法的YYYY/MM/DD")
		return
	}

	result, err := h.byDateUseCase.Execute(c.Request.Context(), date)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, &dto.BooksByDateResponse{
		Date:  result.Date,
		Books: dto.NewBookListResponse(result.Books, includeRelated(c)),
	})
}
