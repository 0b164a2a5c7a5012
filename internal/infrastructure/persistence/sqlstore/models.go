package sqlstore

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/plugin/soft_delete"
)

// registered=true的图书书名唯一
const (
	// registeredTitleIndex 唯一索引名，各方言相同，冲突识别依赖它
	registeredTitleIndex = "unique_title_registered"
	// registeredTitleColumn MySQL的生成列，不在模型里，GORM不读不写
	registeredTitleColumn = "registered_title"
)

// BookModel GORM图书模型
// 设计说明:
// 1. 可空列使用指针,nil写入NULL
// 2. (title, author)联合唯一;同一列组合上的普通索引由唯一索引覆盖
// 3. is_deleted使用soft_delete插件的flag模式(0/1),默认查询自动追加is_deleted = 0
// 4. 分类通过显式中间表book_genres关联,读写中间表都走BookGenreModel
type BookModel struct {
	ID              uint                  `gorm:"primaryKey"`
	Title           string                `gorm:"size:200;not null;uniqueIndex:idx_books_title_author,priority:1;comment:书名"`
	Author          *string               `gorm:"size:40;uniqueIndex:idx_books_title_author,priority:2;comment:作者"`
	PublishedDate   datatypes.Date        `gorm:"not null;index;comment:出版日期"`
	Registered      *bool                 `gorm:"comment:是否登记"`
	Managed         *bool                 `gorm:"comment:是否托管"`
	PageCount       *int                  `gorm:"comment:页数"`
	Price           *int                  `gorm:"index;comment:价格"`
	DiscountedPrice *int                  `gorm:"comment:折扣价"`
	PublisherID     *uint                 `gorm:"index;comment:出版社ID"`
	Publisher       *PublisherModel       `gorm:"constraint:OnDelete:CASCADE"`
	Genres          []GenreModel          `gorm:"many2many:book_genres;joinForeignKey:BookID;joinReferences:GenreID"`
	IsBanned        bool                  `gorm:"not null;default:false;comment:是否封禁"`
	IsDeleted       soft_delete.DeletedAt `gorm:"softDelete:flag;not null;default:0;index;comment:软删除标记"`
}

// TableName 指定表名
func (BookModel) TableName() string {
	return "books"
}

// BookGenreModel 图书-分类中间表
type BookGenreModel struct {
	BookID  uint `gorm:"primaryKey"`
	GenreID uint `gorm:"primaryKey;index"`
}

// TableName 指定表名
func (BookGenreModel) TableName() string {
	return "book_genres"
}

// GenreModel GORM分类模型
type GenreModel struct {
	ID   uint   `gorm:"primaryKey"`
	Name string `gorm:"size:30;not null;comment:分类名称"`
}

// TableName 指定表名
func (GenreModel) TableName() string {
	return "genres"
}

// PublisherModel GORM出版社模型
type PublisherModel struct {
	ID              uint           `gorm:"primaryKey"`
	Name            string         `gorm:"size:75;not null;index;comment:出版社名称"`
	EstablishedDate datatypes.Date `gorm:"not null;comment:创建日期"`
}

// TableName 指定表名
func (PublisherModel) TableName() string {
	return "publishers"
}

// AuthorModel GORM作者模型
// 只建表,没有仓储和接口
type AuthorModel struct {
	ID   uint   `gorm:"primaryKey"`
	Name string `gorm:"size:100;not null;comment:作者姓名"`
}

// TableName 指定表名
func (AuthorModel) TableName() string {
	return "authors"
}

// UserModel GORM用户模型
type UserModel struct {
	ID         uint            `gorm:"primaryKey"`
	Username   string          `gorm:"uniqueIndex;size:30;not null;comment:用户名"`
	Email      string          `gorm:"uniqueIndex;size:254;not null;comment:邮箱"`
	Password   string          `gorm:"size:255;not null;comment:密码（bcrypt加密）"`
	FirstName  string          `gorm:"size:30;not null;comment:名"`
	LastName   string          `gorm:"size:30;not null;comment:姓"`
	IsStaff    bool            `gorm:"not null;default:false"`
	IsActive   bool            `gorm:"not null"`
	DateJoined time.Time       `gorm:"not null;comment:注册时间"`
	BirthDate  *datatypes.Date `gorm:"comment:生日"`
}

// TableName 指定表名
func (UserModel) TableName() string {
	return "users"
}
